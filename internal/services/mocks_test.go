package services

import (
	"mediavault_backend/internal/email"

	"github.com/stretchr/testify/mock"
)

type mockEmailProvider struct {
	mock.Mock
}

func (m *mockEmailProvider) Send(e *email.Email) error {
	args := m.Called(e)
	return args.Error(0)
}

func (m *mockEmailProvider) SendTemplate(e *email.Email, templateName string, data email.TemplateData) error {
	args := m.Called(e, templateName, data)
	return args.Error(0)
}

func (m *mockEmailProvider) Validate() error {
	return m.Called().Error(0)
}

func (m *mockEmailProvider) Close() error {
	return m.Called().Error(0)
}
