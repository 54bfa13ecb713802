package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"trainhub/cmd/seed_training_data/internal/seedmodels"
	"trainhub/database"
	"trainhub/internal/config"
	"trainhub/internal/domain"
	"trainhub/internal/logger"
	"trainhub/internal/repository"

	"go.uber.org/zap"
)

const seedFilePath = "configs/seed_data/hotel_training_quizzes.json"

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	log.Info("Starting training data seeding process...")
	db, err := database.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to Oracle database", zap.Error(err))
	}
	defer db.Close()
	log.Info("Successfully connected to Oracle database.")

	log.Info("Loading seed data from file", zap.String("path", seedFilePath))
	byteValue, err := os.ReadFile(seedFilePath)
	if err != nil {
		log.Fatal("Failed to read seed file", zap.String("path", seedFilePath), zap.Error(err))
	}

	var seedQuizzes []seedmodels.SeedQuiz
	if err := json.Unmarshal(byteValue, &seedQuizzes); err != nil {
		log.Fatal("Failed to unmarshal seed data", zap.Error(err))
	}
	log.Info("Successfully unmarshalled seed data", zap.Int("quizzes_loaded", len(seedQuizzes)))

	quizRepo := repository.NewQuizDatabaseAdapter(db)

	seeded := 0
	for _, sq := range seedQuizzes {
		quiz := toDomainQuiz(sq)
		if err := quizRepo.SaveQuiz(ctx, quiz); err != nil {
			log.Error("Failed to seed quiz, skipping", zap.String("title", sq.Title), zap.Error(err))
			continue
		}
		seeded++
		log.Info("Seeded quiz", zap.String("title", sq.Title), zap.Int("questions", len(sq.Questions)))
	}
	log.Info("Training data seeding completed", zap.Int("seeded", seeded), zap.Int("total", len(seedQuizzes)))
}

func toDomainQuiz(sq seedmodels.SeedQuiz) *domain.Quiz {
	quiz := &domain.Quiz{
		Title:              sq.Title,
		Description:        sq.Description,
		PassingScore:       sq.PassingScore,
		TimeLimitMinutes:   sq.TimeLimitMinutes,
		RandomizeQuestions: sq.RandomizeQuestions,
		ShowFeedbackDuring: sq.ShowFeedbackDuring,
	}
	for _, q := range sq.Questions {
		question := domain.Question{
			Text:          q.Text,
			Type:          domain.QuestionType(q.QuestionType),
			CorrectAnswer: q.CorrectAnswer,
			Points:        q.Points,
		}
		for _, opt := range q.Options {
			question.Options = append(question.Options, domain.Option{
				Text:      opt.Text,
				IsCorrect: opt.IsCorrect,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}
	return quiz
}
