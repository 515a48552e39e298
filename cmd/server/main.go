package main

import (
	"context"
	"net/http"

	"chatbot-backend/internal/api/handlers"
	"chatbot-backend/internal/app"
	"chatbot-backend/internal/config"
	"chatbot-backend/internal/logger"
	"chatbot-backend/internal/repository/mongodb"
	chatService "chatbot-backend/internal/service/chat"
	conversationService "chatbot-backend/internal/service/conversation"
	"chatbot-backend/internal/service/llm"
)

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	}
}

func main() {
	appConfig, err := config.LoadConfig()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load configuration")
	}

	store, err := mongodb.Connect(context.Background(), appConfig.Mongo)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer store.Close(context.Background())

	llmService, err := llm.NewService(&appConfig.LLM)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to create LLM service")
	}

	conversations := conversationService.NewService(store, &appConfig.LLM)
	chat := chatService.NewService(appConfig, conversations, llmService)

	appCfg := app.NewConfig(store, appConfig)
	chatHandlers := handlers.NewChatHandlers(appCfg, chat, conversations)

	corsHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.WriteHeader(http.StatusOK)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", enableCORS(chatHandlers.HealthHandler))
	mux.HandleFunc("OPTIONS /api/health", corsHandler)
	mux.HandleFunc("GET /api/models", enableCORS(chatHandlers.ModelsHandler))
	mux.HandleFunc("OPTIONS /api/models", corsHandler)

	mux.HandleFunc("POST /api/chat", enableCORS(chatHandlers.ChatHandler))
	mux.HandleFunc("OPTIONS /api/chat", corsHandler)
	mux.HandleFunc("GET /api/conversations", enableCORS(chatHandlers.ListConversationsHandler))
	mux.HandleFunc("OPTIONS /api/conversations", corsHandler)
	mux.HandleFunc("GET /api/conversations/{id}/messages", enableCORS(chatHandlers.GetConversationMessagesHandler))
	mux.HandleFunc("OPTIONS /api/conversations/{id}/messages", corsHandler)
	mux.HandleFunc("DELETE /api/conversations/{id}", enableCORS(chatHandlers.DeleteConversationHandler))
	mux.HandleFunc("OPTIONS /api/conversations/{id}", corsHandler)

	port := appConfig.Server.Port
	logger.Log.WithField("port", port).Info("Server starting")
	logger.Log.WithField("provider", appConfig.LLM.Provider).Info("LLM provider configured")
	logger.Log.WithField("model", appConfig.LLM.DefaultModel).Info("Default model configured")

	if err := http.ListenAndServe(":"+port, mux); err != nil {
		logger.Log.WithError(err).Fatal("Server failed to start")
	}
}
