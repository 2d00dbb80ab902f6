package main

import (
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/mozillazg/go-unidecode"
)

// larger images are sent as a document so telegram does not recompress them
const maxSizePhoto = 150000

const maxCaptionLen = 1024

// sendGraphVisualization sends a rendered chart with a caption describing it.
func sendGraphVisualization(api botSender, chatID int64, graph []byte, visualType, subject, nameGraph string, details ...string) {
	fileName := fmt.Sprintf("%s_%s_%s.png",
		visualType,
		fileSlug(subject),
		time.Now().Format("20060102-150405"))
	pngFile := tgbotapi.FileBytes{
		Name:  fileName,
		Bytes: graph,
	}
	caption := generateVizualDescription(visualType, subject, nameGraph, details...)

	var msg tgbotapi.Chattable
	if len(graph) < maxSizePhoto {
		photo := tgbotapi.NewPhotoUpload(chatID, pngFile)
		photo.Caption = caption
		msg = photo
	} else {
		doc := tgbotapi.NewDocumentUpload(chatID, pngFile)
		doc.Caption = caption
		msg = doc
	}

	if _, err := api.Send(msg); err != nil {
		log.Printf("Error sending %s chart for %s: %v", visualType, subject, err)
		api.Send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Cannot send the %s chart: %v", visualType, err)))
	}
}

func generateVizualDescription(visualType, subject, nameGraph string, details ...string) string {
	var caption string
	switch visualType {
	case "trend":
		caption = fmt.Sprintf("%s\n%s, by survey round", nameGraph, subject)
	case "comparison":
		caption = fmt.Sprintf("%s\nAll states, %s, highest first", nameGraph, subject)
	default:
		caption = nameGraph
	}
	for _, d := range details {
		if d != "" {
			caption += "\n" + d
		}
	}
	// telegram captions are limited to 1024 characters
	if runes := []rune(caption); len(runes) > maxCaptionLen {
		caption = string(runes[:maxCaptionLen-3]) + "..."
	}
	return caption
}

func fileSlug(s string) string {
	s = strings.ToLower(unidecode.Unidecode(s))
	s = unsafeFileChars.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}
