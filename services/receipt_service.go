package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	config "github.com/staybid/staybid/configs"
	"github.com/staybid/staybid/database"
	"github.com/staybid/staybid/models"
)

// GenerateBidReceipt renders a payment receipt PDF for a captured booking
// and stores its Cloudinary URL on the bid. Called asynchronously after
// capture; failures are logged, never surfaced to the payer.
func GenerateBidReceipt(bid models.Bid) {
	if bid.ReceiptURL != nil {
		return
	}

	htmlData, err := generateReceiptHTML(bid)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt HTML for bid %s: %v", bid.ID, err)
		return
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt PDF for bid %s: %v", bid.ID, err)
		return
	}

	uploadURL, err := uploadReceipt(pdfBytes, bid.Reference)
	if err != nil {
		log.Printf("🔥 Failed to upload receipt for bid %s: %v", bid.ID, err)
		return
	}

	if err := database.DB.Model(&models.Bid{}).Where("id = ?", bid.ID).Update("receipt_url", uploadURL).Error; err != nil {
		log.Printf("🔥 Failed to save receipt URL for bid %s: %v", bid.ID, err)
		return
	}
	log.Printf("✅ Generated receipt for bid %s.", bid.Reference)
}

func generateReceiptHTML(bid models.Bid) (string, error) {
	tmpl, err := template.ParseFiles("templates/receipt.html")
	if err != nil {
		return "", err
	}

	commission, payable := 0.0, 0.0
	if bid.PlatformCommission != nil {
		commission = *bid.PlatformCommission
	}
	if bid.PayableToHost != nil {
		payable = *bid.PayableToHost
	}

	data := struct {
		Reference    string
		StudentName  string
		PlaceTitle   string
		CheckInDate  string
		CheckOutDate string
		TotalNights  int
		BidPerNight  string
		TotalAmount  string
		Commission   string
		Payable      string
		IssuedAt     string
	}{
		Reference:    bid.Reference,
		StudentName:  bid.Student.FullName,
		PlaceTitle:   bid.Place.Title,
		CheckInDate:  bid.CheckInDate.Format("January 2, 2006"),
		CheckOutDate: bid.CheckOutDate.Format("January 2, 2006"),
		TotalNights:  bid.TotalNights,
		BidPerNight:  fmt.Sprintf("%.2f", bid.BidPerNight),
		TotalAmount:  fmt.Sprintf("%.2f", bid.TotalAmount),
		Commission:   fmt.Sprintf("%.2f", commission),
		Payable:      fmt.Sprintf("%.2f", payable),
		IssuedAt:     time.Now().Format("January 2, 2006"),
	}

	var renderedHTML bytes.Buffer
	if err := tmpl.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadReceipt(fileBytes []byte, reference string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID: fmt.Sprintf("receipts/%s_%s", reference, uuid.New().String()),
	}

	result, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}
	return result.SecureURL, nil
}
