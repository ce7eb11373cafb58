package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/st20/course_exam/handlers"
	"github.com/st20/course_exam/middleware"
)

func ExamRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	exams := api.Group("/exams", middleware.Protected())
	exams.Post("/generate", handlers.GenerateExam)
	exams.Post("/answers", handlers.SubmitAnswer)
	exams.Post("/grade", handlers.GradeExam)
	exams.Post("/report", handlers.ExamReport)
	exams.Get("/answers/:questionId/history", handlers.AnswerHistory)

	// The websocket endpoint authenticates via its first message, not the
	// Authorization header, so it lives outside the Protected() group.
	api.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	api.Get("/ws/exams/:examId", websocket.New(handlers.ServeExamWs))
}
