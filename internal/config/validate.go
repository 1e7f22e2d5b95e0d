package config

func ValidateForRun(cfg *Config) error {
	if err := cfg.Mongo.Validate(); err != nil {
		return err
	}
	return cfg.Redis.Validate()
}
