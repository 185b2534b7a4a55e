package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/qna-service/internal/config"
	"github.com/iliyamo/qna-service/internal/database"
	"github.com/iliyamo/qna-service/internal/handler"
	"github.com/iliyamo/qna-service/internal/middleware"
	"github.com/iliyamo/qna-service/internal/queue"
	"github.com/iliyamo/qna-service/internal/repository"
	"github.com/iliyamo/qna-service/internal/router"
	"github.com/iliyamo/qna-service/internal/service"
	"github.com/iliyamo/qna-service/internal/utils"
)

func main() {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional.  Without it logout revocation degrades to a
	// no-op and tokens simply expire on their own.
	rdb := config.NewRedisClient()
	denylist := repository.NewDenylistRepo(rdb)

	tok := utils.NewTokenizer(cfg.JWTSecret, cfg.AccessTTLMin, cfg.RefreshTTLMin)

	users := repository.NewUserRepo(db)
	questions := repository.NewQuestionRepo(db)
	answers := repository.NewAnswerRepo(db)
	likes := repository.NewLikeRepo(db)

	userSvc := service.NewUserService(users, cfg.AdminEmail, cfg.BcryptCost)
	questionSvc := service.NewQuestionService(questions, answers)
	answerSvc := service.NewAnswerService(questions, answers)
	likeSvc := service.NewLikeService(questions, likes)

	authH := handler.NewAuthHandler(userSvc, tok, denylist)
	userH := handler.NewUserHandler(userSvc)
	questionH := handler.NewQuestionHandler(questionSvc)
	answerH := handler.NewAnswerHandler(answerSvc)
	likeH := handler.NewLikeHandler(likeSvc)

	// The consumer keeps its own reconnect loop; a missing broker must
	// not take the API down.
	go func() {
		if err := queue.StartEventConsumer(); err != nil {
			log.Printf("event consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.Use(middleware.JWTAuth(tok, denylist))
	e.Use(middleware.RoutePolicy(router.Policy()))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH)
	router.RegisterUsers(e, userH)
	router.RegisterQuestions(e, questionH, answerH, likeH)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
