package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/modcase/pkg/domain/interfaces"
	"github.com/secmon-lab/modcase/pkg/domain/model"
	"github.com/secmon-lab/modcase/pkg/domain/types"
	"github.com/secmon-lab/modcase/pkg/service/timefmt"
	"github.com/secmon-lab/modcase/pkg/utils/errutil"
	"github.com/secmon-lab/modcase/pkg/utils/logging"
)

// Invocation identifies where a command was issued and by whom
type Invocation struct {
	GuildID   string
	ChannelID string
	ActorID   string
}

type CaseUseCase struct {
	repo   interfaces.Repository
	guilds *model.GuildRegistry
	chat   interfaces.ChatService
}

func NewCaseUseCase(repo interfaces.Repository, guilds *model.GuildRegistry, chat interfaces.ChatService) *CaseUseCase {
	return &CaseUseCase{
		repo:   repo,
		guilds: guilds,
		chat:   chat,
	}
}

// guild loads the configuration of the invoking guild and a renderer bound to it
func (uc *CaseUseCase) guild(ctx context.Context, guildID string) (*model.GuildConfig, *CaseRenderer, error) {
	cfg, err := uc.guilds.Get(guildID)
	if err != nil {
		return nil, nil, err
	}
	return cfg, NewCaseRenderer(cfg, uc.chat, timefmt.ForGuild(ctx, cfg)), nil
}

func (uc *CaseUseCase) send(ctx context.Context, channelID string, msg *model.Message) (*model.Receipt, error) {
	receipt, err := uc.chat.Send(ctx, channelID, msg)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to send message", goerr.V(ChannelIDKey, channelID))
	}
	return receipt, nil
}

func (uc *CaseUseCase) reply(ctx context.Context, inv Invocation, text string) error {
	_, err := uc.send(ctx, inv.ChannelID, model.TextMessage(text))
	return err
}

// sendEmbed delivers an embed, split into several messages when it exceeds platform limits.
// The receipt is of the first message.
func (uc *CaseUseCase) sendEmbed(ctx context.Context, channelID string, embed *model.Embed) (*model.Receipt, error) {
	var first *model.Receipt
	for _, part := range SplitEmbed(embed) {
		receipt, err := uc.send(ctx, channelID, model.EmbedMessage(part))
		if err != nil {
			return nil, err
		}
		if first == nil {
			first = receipt
		}
	}
	return first, nil
}

// findCase resolves a case by number, or the actor's latest case when number is 0
func (uc *CaseUseCase) findCase(ctx context.Context, cfg *model.GuildConfig, number int64, actorID string) (*model.Case, error) {
	var (
		c   *model.Case
		err error
	)
	if number > 0 {
		c, err = uc.repo.Case().GetByCaseNumber(ctx, cfg.Scope(), number, interfaces.WithNotes())
	} else {
		c, err = uc.repo.Case().GetLatestByModID(ctx, cfg.Scope(), actorID, interfaces.WithNotes())
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get case", goerr.V(model.CaseNumberKey, number))
	}
	if c == nil {
		return nil, goerr.Wrap(model.ErrCaseNotFound, "no such case",
			goerr.V(model.CaseNumberKey, number),
			goerr.V(model.ModIDKey, actorID))
	}
	return c, nil
}

// CreateCaseInput describes a new case. The invoking actor is the moderator.
type CreateCaseInput struct {
	Type   types.CaseType
	UserID string
	// PPID is the moderator the actor acts on behalf of, optional
	PPID       string
	Reason     string
	ExtraNotes []string
	Hidden     bool
}

// CreateCase records a case with its reason as first note, then announces it in the
// guild's case log channel when one is configured.
func (uc *CaseUseCase) CreateCase(ctx context.Context, inv Invocation, input CreateCaseInput) (*model.Case, error) {
	cfg, renderer, err := uc.guild(ctx, inv.GuildID)
	if err != nil {
		return nil, err
	}

	users, err := resolveUsers(ctx, uc.chat, input.UserID, inv.ActorID, input.PPID)
	if err != nil {
		return nil, err
	}
	user, mod, pp := users[0], users[1], users[2]

	created, err := uc.repo.Case().Create(ctx, cfg.Scope(), &model.Case{
		GuildID:  cfg.ID,
		Type:     input.Type,
		UserID:   input.UserID,
		UserName: displayName(user),
		ModID:    inv.ActorID,
		ModName:  displayName(mod),
		PPID:     input.PPID,
		PPName:   displayName(pp),
		IsHidden: input.Hidden,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create case", goerr.V(model.UserIDKey, input.UserID))
	}

	bodies := append([]string{input.Reason}, input.ExtraNotes...)
	for _, body := range bodies {
		if strings.TrimSpace(body) == "" {
			continue
		}
		note, err := uc.repo.Case().AddNote(ctx, created.ID, &model.Note{
			ModID:   inv.ActorID,
			ModName: created.ModName,
			Body:    body,
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to add note", goerr.V(model.CaseIDKey, created.ID))
		}
		created.Notes = append(created.Notes, note)
	}

	logger := logging.From(ctx)
	logger.Info("case created",
		"guild_id", cfg.ID,
		"case_number", created.CaseNumber,
		"case_type", created.Type,
		"user_id", created.UserID,
		"mod_id", created.ModID)

	if cfg.CaseLogChannelID != "" {
		// The case is already recorded; a failed announcement only loses the back-link
		receipt, err := uc.sendEmbed(ctx, cfg.CaseLogChannelID, renderer.Detailed(created, WithoutLogLink()))
		if err != nil {
			_ = errutil.Handle(ctx, err, "failed to post case to case log channel")
		} else if receipt != nil {
			logID := model.FormatLogMessageID(receipt.ChannelID, receipt.MessageID)
			if err := uc.repo.Case().SetLogMessageID(ctx, created.ID, logID); err != nil {
				return nil, goerr.Wrap(err, "failed to record case log message", goerr.V(model.CaseIDKey, created.ID))
			}
			created.LogMessageID = logID
		}
	}

	if err := uc.reply(ctx, inv, fmt.Sprintf("Case `#%d` created for **%s**", created.CaseNumber, created.UserName)); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateCaseInput appends a note to a case. CaseNumber 0 targets the actor's latest case.
type UpdateCaseInput struct {
	CaseNumber int64
	Note       string
}

// UpdateCase appends a note to an existing case
func (uc *CaseUseCase) UpdateCase(ctx context.Context, inv Invocation, input UpdateCaseInput) (*model.Case, error) {
	cfg, _, err := uc.guild(ctx, inv.GuildID)
	if err != nil {
		return nil, err
	}

	c, err := uc.findCase(ctx, cfg, input.CaseNumber, inv.ActorID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Note) == "" {
		return nil, goerr.Wrap(ErrNoteRequired, "empty update", goerr.V(model.CaseNumberKey, c.CaseNumber))
	}

	users, err := resolveUsers(ctx, uc.chat, inv.ActorID)
	if err != nil {
		return nil, err
	}

	note, err := uc.repo.Case().AddNote(ctx, c.ID, &model.Note{
		ModID:   inv.ActorID,
		ModName: displayName(users[0]),
		Body:    input.Note,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to add note", goerr.V(model.CaseIDKey, c.ID))
	}
	c.Notes = append(c.Notes, note)

	logging.From(ctx).Info("case updated",
		"guild_id", cfg.ID,
		"case_number", c.CaseNumber,
		"mod_id", inv.ActorID)

	if err := uc.reply(ctx, inv, fmt.Sprintf("Case `#%d` updated", c.CaseNumber)); err != nil {
		return nil, err
	}
	return c, nil
}

// ShowCase sends the detailed rendering of one case
func (uc *CaseUseCase) ShowCase(ctx context.Context, inv Invocation, number int64) error {
	cfg, renderer, err := uc.guild(ctx, inv.GuildID)
	if err != nil {
		return err
	}

	if number <= 0 {
		return goerr.Wrap(model.ErrCaseNotFound, "invalid case number", goerr.V(model.CaseNumberKey, number))
	}
	c, err := uc.findCase(ctx, cfg, number, inv.ActorID)
	if err != nil {
		return err
	}

	_, err = uc.sendEmbed(ctx, inv.ChannelID, renderer.Detailed(c))
	return err
}

// SetCaseHidden hides or unhides a case. Setting the current value again is not an error.
func (uc *CaseUseCase) SetCaseHidden(ctx context.Context, inv Invocation, number int64, hidden bool) error {
	cfg, _, err := uc.guild(ctx, inv.GuildID)
	if err != nil {
		return err
	}

	if number <= 0 {
		return goerr.Wrap(model.ErrCaseNotFound, "invalid case number", goerr.V(model.CaseNumberKey, number))
	}
	c, err := uc.findCase(ctx, cfg, number, inv.ActorID)
	if err != nil {
		return err
	}

	if err := uc.repo.Case().SetHidden(ctx, c.ID, hidden); err != nil {
		return goerr.Wrap(err, "failed to set hidden", goerr.V(model.CaseIDKey, c.ID))
	}

	if hidden {
		return uc.reply(ctx, inv, fmt.Sprintf("Case `#%d` is now hidden", c.CaseNumber))
	}
	return uc.reply(ctx, inv, fmt.Sprintf("Case `#%d` is no longer hidden", c.CaseNumber))
}

// UserCasesInput selects and shapes the case history of a user
type UserCasesInput struct {
	UserID   string
	ModID    string
	Filter   model.CaseFilter
	Expanded bool
}

// ShowUserCases sends the filtered case history of a user as one or more messages.
// Pages are delivered in order; a failed delivery stops without retracting earlier pages.
func (uc *CaseUseCase) ShowUserCases(ctx context.Context, inv Invocation, input UserCasesInput) error {
	cfg, renderer, err := uc.guild(ctx, inv.GuildID)
	if err != nil {
		return err
	}

	if input.UserID == "" {
		return goerr.Wrap(ErrUserNotFound, "target user is required")
	}
	users, err := resolveUsers(ctx, uc.chat, input.UserID, input.ModID)
	if err != nil {
		return err
	}
	user, mod := users[0], users[1]

	// An unknown moderator is accepted only when it has cases in scope
	if mod != nil && mod.Unknown {
		latest, err := uc.repo.Case().GetLatestByModID(ctx, cfg.Scope(), input.ModID)
		if err != nil {
			return err
		}
		if latest == nil {
			return goerr.Wrap(ErrModeratorNotFound, "unknown moderator without cases", goerr.V(model.UserIDKey, input.ModID))
		}
	}

	result, err := QueryCases(ctx, uc.repo.Case(), CaseQuery{
		Scope:  cfg.Scope(),
		UserID: input.UserID,
		ModID:  input.ModID,
		Filter: input.Filter,
	})
	if err != nil {
		return err
	}

	userName := user.DisplayName
	if user.Unknown {
		// Accounts that are gone keep the name snapshot of their newest case
		if len(result.All) == 0 {
			return goerr.Wrap(ErrUserNotFound, "unknown user without cases", goerr.V(model.UserIDKey, input.UserID))
		}
		userName = result.All[len(result.All)-1].UserName
	}

	presenter := NewCasePresenter(cfg, renderer)
	messages, err := presenter.Present(result, PresentOptions{
		UserName:    userName,
		ByModerator: input.ModID != "",
		Expanded:    input.Expanded,
		Visibility:  input.Filter.Visibility,
	})
	if err != nil {
		return err
	}

	for _, msg := range messages {
		if _, err := uc.send(ctx, inv.ChannelID, msg); err != nil {
			return err
		}
	}
	return nil
}

// ReportError tells the requester why a command failed. Errors without a
// user-facing message are logged and answered with a generic reply.
func (uc *CaseUseCase) ReportError(ctx context.Context, inv Invocation, err error) {
	msg, ok := UserMessage(err)
	if !ok {
		_ = errutil.Handle(ctx, err, "case command failed")
		msg = "Failed to process the command. Please try again later."
	}

	if sendErr := uc.reply(ctx, inv, msg); sendErr != nil {
		_ = errutil.Handle(ctx, sendErr, "failed to send error reply")
	}
}
