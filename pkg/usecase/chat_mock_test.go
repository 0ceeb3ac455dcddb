package usecase_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/secmon-lab/modcase/pkg/domain/interfaces"
	"github.com/secmon-lab/modcase/pkg/domain/model"
)

type sentMessage struct {
	ChannelID string
	Message   *model.Message
}

// mockChat records sent messages and resolves users from a fixed table
type mockChat struct {
	mu        sync.Mutex
	users     map[string]*model.User
	sent      []sentMessage
	failAfter int // Send fails once this many messages were sent; negative disables
	sendErr   error
}

var _ interfaces.ChatService = &mockChat{}

func newMockChat(users ...*model.User) *mockChat {
	m := &mockChat{
		users:     make(map[string]*model.User),
		failAfter: -1,
	}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockChat) ResolveUser(_ context.Context, userID string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.users[userID]; ok {
		return u, nil
	}
	return model.UnknownUser(userID), nil
}

func (m *mockChat) Mention(userID string) string {
	return "<@" + userID + ">"
}

func (m *mockChat) MessageLink(guildID, channelID, messageID string) string {
	return fmt.Sprintf("https://chat.example.com/%s/%s/%s", guildID, channelID, messageID)
}

func (m *mockChat) FormatLink(label, url string) string {
	return "[" + label + "](" + url + ")"
}

func (m *mockChat) Send(_ context.Context, channelID string, msg *model.Message) (*model.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failAfter >= 0 && len(m.sent) >= m.failAfter {
		return nil, m.sendErr
	}
	m.sent = append(m.sent, sentMessage{ChannelID: channelID, Message: msg})
	return &model.Receipt{ChannelID: channelID, MessageID: fmt.Sprintf("M%d", len(m.sent))}, nil
}

func (m *mockChat) sentTo(channelID string) []*model.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	var msgs []*model.Message
	for _, s := range m.sent {
		if s.ChannelID == channelID {
			msgs = append(msgs, s.Message)
		}
	}
	return msgs
}
