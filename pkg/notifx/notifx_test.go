package notifx_test

import (
	"context"
	"strings"
	"testing"

	"github.com/Abraxas-365/turnkey/pkg/notifx"
)

type capturingProvider struct {
	last    notifx.EmailMessage
	sendErr error
}

func (p *capturingProvider) SendEmail(_ context.Context, msg notifx.EmailMessage) error {
	if p.sendErr != nil {
		return p.sendErr
	}
	p.last = msg
	return nil
}

func TestClient_SendEmailValidation(t *testing.T) {
	client := notifx.NewClient(&capturingProvider{})
	ctx := context.Background()

	err := client.SendEmail(ctx, notifx.EmailMessage{Subject: "hi"})
	if err == nil {
		t.Fatal("expected error for missing recipients")
	}

	err = client.SendEmail(ctx, notifx.EmailMessage{To: []string{"a@b.co"}})
	if err == nil {
		t.Fatal("expected error for empty subject")
	}
}

func TestClient_SendTemplatedEmail(t *testing.T) {
	provider := &capturingProvider{}
	client := notifx.NewClient(provider)

	if err := client.RegisterTemplate("greeting", "<p>Hello {{.Name}}</p>"); err != nil {
		t.Fatalf("register: %v", err)
	}

	msg := notifx.EmailMessage{
		From:    "noreply@example.com",
		To:      []string{"ada@example.com"},
		Subject: "Welcome",
	}
	data := struct{ Name string }{Name: "Ada"}

	if err := client.SendTemplatedEmail(context.Background(), "greeting", data, msg); err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.Contains(provider.last.HTMLBody, "Hello Ada") {
		t.Errorf("rendered body = %q", provider.last.HTMLBody)
	}
}

func TestClient_TemplateEscapesHTML(t *testing.T) {
	provider := &capturingProvider{}
	client := notifx.NewClient(provider)

	if err := client.RegisterTemplate("t", "<p>{{.V}}</p>"); err != nil {
		t.Fatalf("register: %v", err)
	}

	data := struct{ V string }{V: "<script>alert(1)</script>"}
	msg := notifx.EmailMessage{To: []string{"a@b.co"}, Subject: "s"}

	if err := client.SendTemplatedEmail(context.Background(), "t", data, msg); err != nil {
		t.Fatalf("send: %v", err)
	}
	if strings.Contains(provider.last.HTMLBody, "<script>") {
		t.Error("template data must be HTML-escaped")
	}
}

func TestClient_UnknownTemplate(t *testing.T) {
	client := notifx.NewClient(&capturingProvider{})

	err := client.SendTemplatedEmail(context.Background(), "missing", nil, notifx.EmailMessage{
		To:      []string{"a@b.co"},
		Subject: "s",
	})
	if err == nil {
		t.Fatal("expected error for unregistered template")
	}
}
