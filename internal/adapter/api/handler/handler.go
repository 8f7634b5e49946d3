package handler

import (
	"chatspace/internal/usecase"
)

var (
	authHandler    *AuthHandler
	chatHandler    *ChatHandler
	messageHandler *MessageHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	chatUseCase *usecase.ChatUseCase,
	messageUseCase *usecase.MessageUseCase,
	cookieSettings CookieSettings,
) {
	authHandler = NewAuthHandler(authUseCase, cookieSettings)
	chatHandler = NewChatHandler(chatUseCase)
	messageHandler = NewMessageHandler(messageUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetMessageHandler() *MessageHandler {
	return messageHandler
}
