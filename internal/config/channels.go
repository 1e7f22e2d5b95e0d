package config

import "os"

type ExpoConfig struct {
	BaseURL string
}

type ResendConfig struct {
	APIKey string
	Sender string
}

type VonageConfig struct {
	APIKey    string
	APISecret string
	Sender    string
	BaseURL   string
}

// ChannelsConfig configures the delivery channels. A channel whose
// credentials are absent is simply not constructed.
type ChannelsConfig struct {
	Expo   ExpoConfig
	Resend ResendConfig
	Vonage VonageConfig
}

func LoadChannelsConfig() *ChannelsConfig {
	return &ChannelsConfig{
		Expo: ExpoConfig{
			BaseURL: os.Getenv("EXPO_BASE_URL"),
		},
		Resend: ResendConfig{
			APIKey: os.Getenv("RESEND_API_KEY"),
			Sender: os.Getenv("RESEND_SENDER"),
		},
		Vonage: VonageConfig{
			APIKey:    os.Getenv("VONAGE_API_KEY"),
			APISecret: os.Getenv("VONAGE_API_SECRET"),
			Sender:    os.Getenv("VONAGE_SENDER"),
			BaseURL:   os.Getenv("VONAGE_BASE_URL"),
		},
	}
}
