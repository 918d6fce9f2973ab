package http

import (
	"encoding/json"
	"log"
	"net/http"

	"complexity-quiz-service/internal/app"
	"complexity-quiz-service/internal/domain"
	"complexity-quiz-service/internal/quiz"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	quizzes  *app.QuizService
	leads    *app.LeadService
	upgrader websocket.Upgrader
}

func NewWSHandler(quizzes *app.QuizService, leads *app.LeadService) *WSHandler {
	return &WSHandler{
		quizzes: quizzes,
		leads:   leads,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// answerPayload.Weight applies only to values missing from the catalog.
type answerPayload struct {
	QuestionID domain.Category `json:"questionId"`
	Value      string          `json:"value"`
	Weight     int             `json:"weight"`
}

type leadPayload struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Company string `json:"company"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and drives one quiz session per connection.
// Pass ?sessionId= to resume; otherwise a new session is started.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	var snap app.Snapshot
	if sessionID := r.URL.Query().Get("sessionId"); sessionID != "" {
		snap, err = h.quizzes.Get(ctx, sessionID)
	} else {
		snap, err = h.quizzes.Start(ctx)
	}
	if err != nil {
		_ = conn.WriteJSON(errorMessage(err))
		return
	}
	if err := conn.WriteJSON(stateMessage(snap)); err != nil {
		return
	}
	sessionID := snap.Session.ID

	// Replies are written from this loop only, so there is a single writer.
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws read error: %v", err)
			}
			return
		}

		var reply outboundMessage
		switch quiz.IntentType(inbound.Type) {
		case quiz.IntentAnswer:
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				reply = outboundMessage{Type: "error", Payload: errorPayload{Code: "invalid", Message: "invalid answer payload"}}
				break
			}
			reply = h.dispatch(r, sessionID, quiz.Intent{
				Type:       quiz.IntentAnswer,
				QuestionID: payload.QuestionID,
				Value:      payload.Value,
				Weight:     payload.Weight,
			})
		case quiz.IntentAdvance, quiz.IntentRetreat:
			reply = h.dispatch(r, sessionID, quiz.Intent{Type: quiz.IntentType(inbound.Type)})
		default:
			if inbound.Type == "lead" {
				reply = h.submitLead(r, sessionID, inbound.Payload)
				break
			}
			reply = outboundMessage{Type: "error", Payload: errorPayload{Code: "invalid", Message: "unsupported message type"}}
		}

		if err := conn.WriteJSON(reply); err != nil {
			log.Printf("ws write error: %v", err)
			return
		}
	}
}

func (h *WSHandler) dispatch(r *http.Request, sessionID string, intent quiz.Intent) outboundMessage {
	snap, err := h.quizzes.Dispatch(r.Context(), sessionID, intent)
	if err != nil {
		return errorMessage(err)
	}
	return stateMessage(snap)
}

func (h *WSHandler) submitLead(r *http.Request, sessionID string, raw json.RawMessage) outboundMessage {
	if h.leads == nil {
		return outboundMessage{Type: "error", Payload: errorPayload{Code: "unavailable", Message: "lead capture is not configured"}}
	}
	var payload leadPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return outboundMessage{Type: "error", Payload: errorPayload{Code: "invalid", Message: "invalid lead payload"}}
	}
	receipt, err := h.leads.SubmitLead(r.Context(), sessionID, domain.Contact{
		Email:   payload.Email,
		Name:    payload.Name,
		Company: payload.Company,
	})
	if err != nil {
		return errorMessage(err)
	}
	return outboundMessage{Type: "lead", Payload: receipt}
}

func stateMessage(snap app.Snapshot) outboundMessage {
	if snap.Result != nil {
		return outboundMessage{Type: "results", Payload: snap}
	}
	return outboundMessage{Type: "state", Payload: snap}
}

func errorMessage(err error) outboundMessage {
	status, code := errorStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("ws request failed: %v", err)
		message = "Unexpected server error"
	}
	return outboundMessage{Type: "error", Payload: errorPayload{Code: code, Message: message}}
}
