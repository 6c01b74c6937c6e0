package config

import (
	"strings"

	"github.com/relaykit/contact-relay/env"
)

/*
ENV-ONLY CONFIG:
  LISTEN_ADDR (default ":3000")
  LOG_LEVEL ("debug"|"info"|"warn"|"error", default "info")
  LOG_FORMAT ("text"|"json", default "text")

  ALLOWED_ORIGINS="https://a.com,https://b.com"  // or "*"; empty disables CORS
  MAX_BODY_KB (default 64)

  MAIL_DRIVER ("resend" default, or "smtp")
  CONTACT_EMAIL  // destination override
  MAIL_FROM

  Resend driver:
    RESEND_API_KEY  // if unset, submissions fail with a dispatch error

  SMTP driver:
    SMTP_HOST, SMTP_PORT (587), SMTP_USER, SMTP_PASS, SMTP_SSL ("true"/"false")
*/

const (
	DriverResend = "resend"
	DriverSMTP   = "smtp"
)

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	SSL  bool
}

type Config struct {
	ListenAddr     string
	AllowedOrigins []string
	MaxBodyKB      int

	MailDriver   string
	ResendAPIKey string
	ContactTo    string
	MailFrom     string
	SMTP         SMTPConfig
}

// Load reads the configuration from the environment. Mail credentials are
// deliberately not required here; a missing credential surfaces as a
// dispatch failure on the affected request, not a startup failure.
func Load() *Config {
	return &Config{
		ListenAddr:     env.Env("LISTEN_ADDR", ":3000"),
		AllowedOrigins: splitList(env.Env("ALLOWED_ORIGINS", "")),
		MaxBodyKB:      env.EnvInt("MAX_BODY_KB", 64),
		MailDriver:     strings.ToLower(env.Env("MAIL_DRIVER", DriverResend)),
		ResendAPIKey:   env.Env("RESEND_API_KEY", ""),
		ContactTo:      env.Env("CONTACT_EMAIL", "contact@example.com"),
		MailFrom:       env.Env("MAIL_FROM", "Portfolio Contact <onboarding@resend.dev>"),
		SMTP: SMTPConfig{
			Host: env.Env("SMTP_HOST", ""),
			Port: env.EnvInt("SMTP_PORT", 587),
			User: env.Env("SMTP_USER", ""),
			Pass: env.Env("SMTP_PASS", ""),
			SSL:  env.EnvBool("SMTP_SSL", false),
		},
	}
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
