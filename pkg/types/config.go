package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	DatabaseURL     string `envconfig:"DATABASE_URL"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`

	// Cognito Auth
	CognitoUserPoolID string `envconfig:"COGNITO_USER_POOL_ID"`
	CognitoClientID   string `envconfig:"COGNITO_CLIENT_ID"`
	CognitoIssuerURL  string `envconfig:"COGNITO_ISSUER_URL"`

	// Blob storage
	S3BucketName string `envconfig:"S3_BUCKET_NAME" default:"rentdesk-uploads"`
	S3PublicURL  string `envconfig:"S3_PUBLIC_URL"`

	// Stripe
	StripeSecretKey string `envconfig:"STRIPE_SECRET_KEY"`

	// PayPal
	PayPalClientID     string `envconfig:"PAYPAL_CLIENT_ID"`
	PayPalClientSecret string `envconfig:"PAYPAL_CLIENT_SECRET"`
	PayPalBaseURL      string `envconfig:"PAYPAL_BASE_URL" default:"https://api-m.sandbox.paypal.com"`

	// M-Pesa (Safaricom Daraja)
	MpesaConsumerKey    string `envconfig:"MPESA_CONSUMER_KEY"`
	MpesaConsumerSecret string `envconfig:"MPESA_CONSUMER_SECRET"`
	MpesaShortCode      string `envconfig:"MPESA_SHORT_CODE"`
	MpesaPasskey        string `envconfig:"MPESA_PASSKEY"`
	MpesaCallbackURL    string `envconfig:"MPESA_CALLBACK_URL"`
	MpesaBaseURL        string `envconfig:"MPESA_BASE_URL" default:"https://sandbox.safaricom.co.ke"`

	// SMTP
	EmailHost     string `envconfig:"EMAIL_HOST"`
	EmailPort     int    `envconfig:"EMAIL_PORT" default:"587"`
	EmailUser     string `envconfig:"EMAIL_USER"`
	EmailPassword string `envconfig:"EMAIL_PASSWORD"`

	// Async notification fan-out
	NotifyWorkers int `envconfig:"NOTIFY_WORKERS" default:"4"`
}
