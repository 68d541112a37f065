package infrastructure_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/bulletin/internal/config"
	"github.com/JaimeStill/bulletin/internal/infrastructure"
	"github.com/JaimeStill/bulletin/pkg/database"
	"github.com/JaimeStill/bulletin/pkg/storage"
)

const azurite = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=a2V5;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func validConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{
		Database: database.Config{
			Host:     "localhost",
			Name:     "bulletin",
			User:     "bulletin",
			Password: "bulletin",
		},
		Storage: storage.Config{
			ContainerName:    "attachments",
			ConnectionString: azurite,
		},
	}
	require.NoError(t, cfg.Logging.Finalize())
	return cfg
}

func TestNew(t *testing.T) {
	infra, err := infrastructure.New(validConfig(t))
	require.NoError(t, err)
	t.Cleanup(infra.Database.Pool().Close)

	assert.NotNil(t, infra.Lifecycle)
	assert.NotNil(t, infra.Logger)
	assert.NotNil(t, infra.Database.Pool())
	assert.NotNil(t, infra.Storage)
	assert.NotNil(t, infra.Metrics)
	assert.NotNil(t, infra.Sequence)
}

func TestNewInvalidStorageConfig(t *testing.T) {
	cfg := validConfig(t)
	cfg.Storage.ConnectionString = "not-a-connection-string"

	_, err := infrastructure.New(cfg)
	assert.Error(t, err)
}
