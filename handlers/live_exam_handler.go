package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	config "github.com/st20/course_exam/configs"
	"github.com/st20/course_exam/database"
	"github.com/st20/course_exam/services"
)

type examAction struct {
	Action     string          `json:"action"`
	QuestionID uint            `json:"question_id,omitempty"`
	Answer     json.RawMessage `json:"answer,omitempty"`
	Index      int             `json:"index,omitempty"`
}

type wsWriter struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsWriter) send(v interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.conn.WriteJSON(v); err != nil {
		log.Printf("WebSocket write error: %v", err)
	}
}

func (w *wsWriter) sendError(message string) {
	w.send(fiber.Map{"type": "error", "message": message})
}

func (w *wsWriter) sendState(s *services.ExamSession) {
	state := s.State()
	w.send(fiber.Map{
		"type":      "state",
		"index":     state.Index,
		"total":     state.Total,
		"remaining": state.Remaining,
		"answered":  state.Answered,
		"completed": state.Completed,
	})
}

// ServeExamWs runs one live exam attempt over a websocket. The first client
// message must be {"type":"auth","token":...}; afterwards the client drives
// the delivery state machine with answer/next/previous/goto/submit actions
// while the server pushes one tick per second for timed questions.
func ServeExamWs(c *websocket.Conn) {
	examID, err := uuid.Parse(c.Params("examId"))
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"type": "error", "message": "Invalid exam id"})
		c.Close()
		return
	}

	var authMsg struct {
		Type  string `json:"type"`
		Token string `json:"token"`
	}
	if err := c.ReadJSON(&authMsg); err != nil || authMsg.Type != "auth" {
		_ = c.WriteJSON(fiber.Map{"type": "error", "message": "Invalid or missing auth message"})
		c.Close()
		return
	}

	claims, err := parseToken(authMsg.Token)
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"type": "error", "message": "Invalid token"})
		c.Close()
		return
	}
	id, ok := claims["user_id"].(float64)
	if !ok {
		_ = c.WriteJSON(fiber.Map{"type": "error", "message": "Invalid user ID"})
		c.Close()
		return
	}
	userID := uint(id)

	session, ok := services.Sessions.Get(examID)
	if ok && session.UserID != userID {
		_ = c.WriteJSON(fiber.Map{"type": "error", "message": "Exam not found or expired"})
		c.Close()
		return
	}
	if !ok {
		exam, err := services.LoadExam(context.Background(), database.RDB, examID, userID)
		if err != nil {
			_ = c.WriteJSON(fiber.Map{"type": "error", "message": "Exam not found or expired"})
			c.Close()
			return
		}
		session = services.NewExamSession(exam)
		services.Sessions.Put(session)
	}

	// Claiming the countdown detaches any earlier connection's ticker, so a
	// reconnect or second tab never double-ticks the session.
	attachment := session.Attach()

	writer := &wsWriter{conn: c}
	writer.sendState(session)

	done := make(chan struct{})
	defer close(done)
	go runCountdown(session, writer, attachment, done)

	for {
		var msg examAction
		if err := c.ReadJSON(&msg); err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Exam websocket closed for user %d: %v", userID, err)
			} else {
				log.Printf("Exam websocket read error for user %d: %v", userID, err)
			}
			return
		}

		switch msg.Action {
		case "answer":
			if err := session.Record(msg.QuestionID, msg.Answer); err != nil {
				writer.sendError(err.Error())
				continue
			}
			writer.sendState(session)
		case "next":
			advanced, err := session.Next()
			if err != nil {
				writer.sendError(err.Error())
				continue
			}
			if !advanced {
				// Advancing past the last question is the explicit submission.
				if submitExam(session, writer) {
					return
				}
				continue
			}
			writer.sendState(session)
		case "previous":
			if err := session.Previous(); err != nil {
				writer.sendError(err.Error())
				continue
			}
			writer.sendState(session)
		case "goto":
			if err := session.Goto(msg.Index); err != nil {
				writer.sendError(err.Error())
				continue
			}
			writer.sendState(session)
		case "submit":
			if submitExam(session, writer) {
				return
			}
		default:
			writer.sendError(fmt.Sprintf("Unknown action %q", msg.Action))
		}
	}
}

// runCountdown drives the per-question timer at one-second granularity. The
// session's own lock keeps a tick from ever acting on a stale index, and the
// attachment token keeps a superseded connection's ticker from consuming
// seconds alongside the current one.
func runCountdown(session *services.ExamSession, writer *wsWriter, attachment uint64, done <-chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if session.Completed() {
				return
			}
			before := session.State()
			if before.Remaining == nil {
				continue
			}
			result := session.Tick(attachment)
			if result.Detached {
				return
			}
			if result.Advanced {
				writer.sendState(session)
				continue
			}
			writer.send(fiber.Map{"type": "tick", "remaining": result.Remaining})
		}
	}
}

// submitExam completes the session, persists the recorded answers one by one
// and sends the graded results. Answers are never rolled back; a failure
// mid-sequence is reported and the attempt stays gradable over REST.
func submitExam(session *services.ExamSession, writer *wsWriter) bool {
	recorded, err := session.Complete()
	if err != nil {
		writer.sendError(err.Error())
		return false
	}

	for _, answer := range recorded {
		err := services.SubmitAnswer(database.DB, session.UserID, answer.QuestionID, answer.TypeID, answer.AnswerData)
		if err != nil {
			writer.sendError("Failed to submit answers: " + err.Error())
			return true
		}
	}

	results, err := services.GradeExam(database.DB, session.UserID, session.QuestionIDs())
	if err != nil {
		writer.sendError("Failed to grade exam: " + err.Error())
		return true
	}

	writer.send(fiber.Map{"type": "results", "results": results})

	services.Sessions.Remove(session.ID)
	if err := services.DeleteExam(context.Background(), database.RDB, session.ID); err != nil {
		log.Printf("Failed to drop exam snapshot %s: %v", session.ID, err)
	}
	return true
}

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.Config("JWT_SECRET")), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
