package usecase

import (
	"github.com/secmon-lab/modcase/pkg/domain/interfaces"
	"github.com/secmon-lab/modcase/pkg/domain/model"
)

type UseCases struct {
	repo   interfaces.Repository
	guilds *model.GuildRegistry
	chat   interfaces.ChatService
	Case   *CaseUseCase
}

type Option func(*UseCases)

// WithGuilds sets the guild configurations commands are served for
func WithGuilds(guilds *model.GuildRegistry) Option {
	return func(uc *UseCases) {
		uc.guilds = guilds
	}
}

// WithChat sets the chat platform replies and announcements are delivered to
func WithChat(chat interfaces.ChatService) Option {
	return func(uc *UseCases) {
		uc.chat = chat
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:   repo,
		guilds: model.NewGuildRegistry(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Case = NewCaseUseCase(repo, uc.guilds, uc.chat)

	return uc
}
