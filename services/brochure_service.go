package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	config "github.com/voyago/travel_commerce/configs"
	"github.com/voyago/travel_commerce/models"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// GenerateBundleBrochure renders a printable brochure for a bundle and its
// products, converts it to PDF and stores it on Cloudinary. Returns the
// public URL of the stored file.
func GenerateBundleBrochure(bundle models.Bundle) (string, error) {
	htmlData, err := renderBrochureHTML(bundle)
	if err != nil {
		return "", fmt.Errorf("failed to render brochure HTML: %w", err)
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		return "", fmt.Errorf("failed to generate brochure PDF: %w", err)
	}

	uploadURL, err := uploadBrochure(pdfBytes, bundle.ID)
	if err != nil {
		return "", fmt.Errorf("failed to upload brochure: %w", err)
	}
	return uploadURL, nil
}

func renderBrochureHTML(bundle models.Bundle) (string, error) {
	tmpl, err := template.ParseFiles("templates/brochure.html")
	if err != nil {
		return "", err
	}

	data := struct {
		Bundle      models.Bundle
		GeneratedAt string
	}{
		Bundle:      bundle,
		GeneratedAt: time.Now().Format("January 2, 2006"),
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

func uploadBrochure(fileBytes []byte, bundleID uint) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("brochures/%d_%s", bundleID, uuid.New().String()),
		Folder:       "travel_commerce_brochures",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
