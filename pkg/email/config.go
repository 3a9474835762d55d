package email

// Config selects and configures the mail backend. Driver is "postmark" or
// "dev"; the dev driver writes .eml files to DevDir.
type Config struct {
	Enabled              bool   `env:"MAIL_ENABLED" envDefault:"true"`
	Driver               string `env:"MAIL_DRIVER" envDefault:"dev"`
	DevDir               string `env:"MAIL_DEV_DIR" envDefault:"./tmp/mails"`
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	From                 string `env:"MAIL_FROM" envDefault:"Joe Doe <Joe.Doe@acme.com>"`
	To                   string `env:"MAIL_TO" envDefault:"Foo Bar <Foo.Bar@acme.com>"`
}
