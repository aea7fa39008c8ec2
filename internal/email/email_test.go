package email

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateManager_RendersEmbeddedActivation(t *testing.T) {
	tm, err := NewTemplateManager()
	require.NoError(t, err)
	assert.Contains(t, tm.TemplateNames(), TemplateActivation)

	html, err := tm.Render(TemplateActivation, TemplateData{
		"Username":      "alice<script>",
		"SiteName":      "MediaVault",
		"ActivationURL": "http://localhost:8000/accounts/activate/MQ/tok/",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "http://localhost:8000/accounts/activate/MQ/tok/")
	assert.NotContains(t, html, "<script>")
}

func TestTemplateManager_DirectoryOverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "activation.html"), []byte("custom {{.Username}}"), 0644))

	tm, err := NewTemplateManager()
	require.NoError(t, err)
	require.NoError(t, tm.LoadTemplates(dir))

	html, err := tm.Render(TemplateActivation, TemplateData{"Username": "bob"})
	require.NoError(t, err)
	assert.Equal(t, "custom bob", html)

	_, err = tm.Render("missing", nil)
	assert.Error(t, err)
}

func TestLogProvider_RecordsMessages(t *testing.T) {
	tm, err := NewTemplateManager()
	require.NoError(t, err)
	p := NewLogProvider(tm)

	assert.Nil(t, p.Last())
	assert.Error(t, p.Send(&Email{Subject: "no recipients"}))

	err = p.SendTemplate(&Email{
		To:      []string{"alice@example.com"},
		Subject: "Activate",
		Body:    "link",
	}, TemplateActivation, TemplateData{"Username": "alice", "ActivationURL": "http://x/"})
	require.NoError(t, err)

	last := p.Last()
	require.NotNil(t, last)
	assert.Equal(t, []string{"alice@example.com"}, last.To)
	assert.Equal(t, "link", last.Body)
	assert.Contains(t, last.HTMLBody, "http://x/")
	assert.Len(t, p.Sent(), 1)
}

func TestSMTPProvider_Validate(t *testing.T) {
	p := NewSMTPProvider(&SMTPConfig{Host: "smtp.example.com", Port: 587, FromEmail: "noreply@example.com"}, nil)
	assert.NoError(t, p.Validate())

	assert.Error(t, NewSMTPProvider(&SMTPConfig{Port: 587, FromEmail: "a@b.c"}, nil).Validate())
	assert.Error(t, NewSMTPProvider(&SMTPConfig{Host: "h", Port: 70000, FromEmail: "a@b.c"}, nil).Validate())

	_, err := p.buildMessage(&Email{Subject: "x"})
	assert.Error(t, err)
	assert.Error(t, p.SendTemplate(&Email{To: []string{"a@b.c"}}, TemplateActivation, nil))
}
