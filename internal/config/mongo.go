package config

import "os"

const (
	mongoURIEnv      = "MONGO_URI"
	mongoDatabaseEnv = "MONGO_DATABASE"

	defaultMongoURI      = "mongodb://localhost:27017"
	defaultMongoDatabase = "studypulse"
)

type MongoConfig struct {
	URI      string
	Database string
}

func LoadMongoConfig() (*MongoConfig, error) {
	uri := os.Getenv(mongoURIEnv)
	if uri == "" {
		uri = defaultMongoURI
	}

	database := os.Getenv(mongoDatabaseEnv)
	if database == "" {
		database = defaultMongoDatabase
	}

	return &MongoConfig{
		URI:      uri,
		Database: database,
	}, nil
}

func (c *MongoConfig) Validate() error {
	if c == nil || c.URI == "" {
		return ErrMongoURIMissing
	}
	return nil
}
