package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/api/handlers"
	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/api/middleware"
	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/database"
	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/services/access"
	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/services/gallery"
	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/services/quiz"
	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/services/relay"
	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/services/voting"
)

func main() {
	if os.Getenv("APP_ENV") != "production" {
		err := godotenv.Load()
		if err != nil {
			log.Printf("warning: Error loading .env file (this is fine in production): %v", err)
		}
	}

	// データベース接続。DATABASE_URL未設定や接続失敗でも起動は続ける。
	// 各サービスがインメモリフォールバックで動作するため、会場のネットワークが
	// 不安定でもパーティーは止まらない。
	var dbService *database.DatabaseService
	var commandRepo database.CommandRepository
	var performanceRepo database.PerformanceRepository
	var quizRepo database.QuizRepository
	var messageRepo database.MessageRepository
	var userRepo database.UserRepository
	var settingsRepo database.SettingsRepository

	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		var err error
		dbService, err = database.NewDatabaseService(databaseURL)
		if err != nil {
			log.Printf("warning: データベースに接続できないため、インメモリモードで起動します: %v", err)
			dbService = nil
		} else {
			commandRepo = database.NewCommandRepository(dbService.DB)
			performanceRepo = database.NewPerformanceRepository(dbService.DB)
			quizRepo = database.NewQuizRepository(dbService.DB)
			messageRepo = database.NewMessageRepository(dbService.DB)
			userRepo = database.NewUserRepository(dbService.DB)
			settingsRepo = database.NewSettingsRepository(dbService.DB)
		}
	} else {
		log.Println("warning: DATABASE_URLが設定されていないため、インメモリモードで起動します")
	}

	// 写真ギャラリー（Supabaseストレージ）。未構成ならエンドポイントは503を返す
	var galleryService *gallery.Service
	if supabaseURL := os.Getenv("SUPABASE_URL"); supabaseURL != "" {
		var err error
		galleryService, err = gallery.NewService(supabaseURL, os.Getenv("SUPABASE_KEY"))
		if err != nil {
			log.Printf("warning: ギャラリーサービスの初期化に失敗しました: %v", err)
		}
	}

	// サービスの組み立て
	hub := relay.NewHub()
	relayService := relay.NewService(commandRepo, hub)
	votingService := voting.NewService(performanceRepo)
	quizService := quiz.NewService(quizRepo)
	accessService := access.NewService(settingsRepo)

	// 古い消費済みスピンコマンドの定期掃除
	cleanupQuit := relayService.StartCleanupLoop()
	defer close(cleanupQuit)
	defer hub.Shutdown()

	// ハンドラーの組み立て
	spinHandler := handlers.NewSpinHandler(relayService, hub)
	voteHandler := handlers.NewVoteHandler(votingService)
	quizHandler := handlers.NewQuizHandler(quizService)
	leaderboardHandler := handlers.NewLeaderboardHandler(quizService, votingService)
	settingsHandler := handlers.NewSettingsHandler(accessService)
	adminHandler := handlers.NewAdminHandler(votingService, quizService)
	photoHandler := handlers.NewPhotoHandler(galleryService)

	r := mux.NewRouter()

	// 認証不要な公開エンドポイント
	r.HandleFunc("/api/public", handlers.PublicHandlerFunc).Methods("GET")

	// スピンコマンドリレー
	r.HandleFunc("/api/spin", spinHandler.Poll).Methods("GET")
	r.HandleFunc("/api/spin", spinHandler.Publish).Methods("POST")
	r.HandleFunc("/api/spin", spinHandler.Cleanup).Methods("DELETE")
	r.HandleFunc("/api/spin/ws", spinHandler.ServeWS)

	// パフォーマンスと投票
	r.HandleFunc("/api/performances", voteHandler.GetLeaderboard).Methods("GET")
	r.HandleFunc("/api/performances", voteHandler.AddPerformance).Methods("POST")
	r.HandleFunc("/api/votes", voteHandler.Vote).Methods("POST")

	// クイズ
	r.HandleFunc("/api/quiz/results", quizHandler.GetResults).Methods("GET")
	r.HandleFunc("/api/quiz/results", quizHandler.PostResult).Methods("POST")
	r.HandleFunc("/api/quiz/results/{player}", quizHandler.GetPlayerStatus).Methods("GET")
	r.HandleFunc("/api/quiz/leaderboard", quizHandler.GetLeaderboard).Methods("GET")

	// 統合順位表
	r.HandleFunc("/api/leaderboard", leaderboardHandler.GetUnifiedLeaderboard).Methods("GET")
	r.HandleFunc("/api/leaderboard/stats", leaderboardHandler.GetGlobalStats).Methods("GET")

	// 機能トグルとポーリング間隔
	r.HandleFunc("/api/settings", settingsHandler.GetSettings).Methods("GET")

	// 写真ギャラリー
	r.HandleFunc("/api/photos", photoHandler.GetPhotos).Methods("GET")
	r.HandleFunc("/api/photos", photoHandler.UploadPhoto).Methods("POST")

	// 管理者用ルートグループ。AdminAuthMiddlewareでJWT検証を行う。
	// リセットとトグルはインメモリモードでも動くため、ここは常に登録する
	adminRouter := r.PathPrefix("/api/admin").Subrouter()
	adminRouter.Use(middleware.AdminAuthMiddleware)
	adminRouter.HandleFunc("/reset", adminHandler.Reset).Methods("POST")
	adminRouter.HandleFunc("/settings/toggle", settingsHandler.ToggleFeature).Methods("POST")
	adminRouter.HandleFunc("/photos/{id}", photoHandler.DeletePhoto).Methods("DELETE")

	// データベースが使える場合のみ有効なエンドポイント
	if dbService != nil {
		publicHandler := handlers.NewPublicHandler(dbService)
		messageHandler := handlers.NewMessageHandler(messageRepo)
		userHandler := handlers.NewUserHandler(userRepo)

		r.HandleFunc("/api/user/{username}/display-name", publicHandler.GetUserDisplayNameHandler).Methods("GET")
		r.HandleFunc("/api/messages", messageHandler.GetMessages).Methods("GET")
		r.HandleFunc("/api/messages", messageHandler.PostMessage).Methods("POST")
		r.HandleFunc("/api/users", userHandler.GetUsers).Methods("GET")
		r.HandleFunc("/api/users", userHandler.RegisterUser).Methods("POST")
		r.HandleFunc("/api/users/login", userHandler.Login).Methods("POST")
		adminRouter.HandleFunc("/users/{id}", userHandler.DeleteUser).Methods("DELETE")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server starting on :%s", port)
	log.Fatal(http.ListenAndServe(":"+port, middleware.CORSHandler()(r)))
}
