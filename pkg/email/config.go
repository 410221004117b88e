package email

// Config holds mail settings. Without Postmark tokens the service falls back
// to the development sender.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL" envDefault:"no-reply@taskflask.local"`
	SupportEmail         string `env:"SUPPORT_EMAIL" envDefault:"support@taskflask.local"`
	DevOutputDir         string `env:"DEV_OUTPUT_DIR" envDefault:"tmp/emails"`
}

// PostmarkEnabled reports whether both Postmark tokens are set.
func (c Config) PostmarkEnabled() bool {
	return c.PostmarkServerToken != "" && c.PostmarkAccountToken != ""
}
