package registry_test

import (
	"groupchat/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockShadow struct {
	mock.Mock
}

func (m *MockShadow) SaveUser(u models.User) {
	m.Called(u)
}

func (m *MockShadow) SaveMessage(msg models.Message) {
	m.Called(msg)
}

func (m *MockShadow) SaveRoom(r models.Room) {
	m.Called(r)
}

func (m *MockShadow) UpdateUserStatus(userID string, online bool) {
	m.Called(userID, online)
}

func newMockShadow() *MockShadow {
	m := new(MockShadow)
	m.On("SaveUser", mock.Anything).Return()
	m.On("SaveMessage", mock.Anything).Return()
	m.On("SaveRoom", mock.Anything).Return()
	m.On("UpdateUserStatus", mock.Anything, mock.Anything).Return()
	return m
}
