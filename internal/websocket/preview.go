package websocket

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/contrib/websocket"

	"github.com/sheetsby/metadata-api/internal/model"
	"github.com/sheetsby/metadata-api/internal/preview"
	"github.com/sheetsby/metadata-api/internal/service"
)

// ServePreview runs the two debounced preview streams for one connection.
// The client reports field changes as observe messages; the server answers
// with preview state pushes. Each stream keeps at most one displayed result:
// the fetchers drop anything stale before it reaches the socket.
func ServePreview(c *websocket.Conn, previews *service.PreviewService, quiet time.Duration) {
	send := make(chan []byte, 64)
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case message := <-send:
				if err := c.WriteMessage(websocket.TextMessage, message); err != nil {
					return
				}
			case <-ticker.C:
				if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-done:
				c.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
		}
	}()

	push := func(stream string, result model.PreviewResult) {
		msg := model.WSPreviewMessage{
			Type:   model.WSMessageTypePreview,
			Stream: stream,
			Result: result,
		}
		data, err := json.Marshal(msg)
		if err != nil {
			log.Printf("Failed to marshal preview message: %v", err)
			return
		}
		// Drop rather than block: a newer state follows soon enough.
		select {
		case send <- data:
		default:
		}
	}

	sheet := preview.New(quiet, previews.SheetPreview, func(r model.PreviewResult) {
		push(model.PreviewStreamSheet, r)
	})
	screenshot := preview.New(quiet, previews.ScreenshotPreview, func(r model.PreviewResult) {
		push(model.PreviewStreamScreenshot, r)
	}, preview.WithValidation(preview.ValidateURL))
	defer sheet.Stop()
	defer screenshot.Stop()

	for {
		_, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Preview socket error: %v", err)
			}
			break
		}

		var msg model.WSObserveMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		if msg.Type == model.WSMessageTypePing {
			pong, _ := json.Marshal(model.WSMessage{Type: model.WSMessageTypePong})
			select {
			case send <- pong:
			default:
			}
			continue
		}

		switch msg.Stream {
		case model.PreviewStreamSheet:
			sheet.Observe(msg.Value)
		case model.PreviewStreamScreenshot:
			screenshot.Observe(msg.Value)
		}
	}

	close(done)
}
