package appconfig

import (
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/lottostats/backend/internal/app/appcontext"
	"github.com/lottostats/backend/internal/pkg/projectpath"
)

const envPrefix = "lottostats"

// Parse reads LOTTOSTATS_* variables, optionally seeded from a .env file at
// the project root, and checks the enumerated settings.
func Parse(ctx appcontext.Ctx) (*Config, error) {
	if err := godotenv.Load(filepath.Join(projectpath.Root, ".env")); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	var spec ConfigSpec
	if err := envconfig.Process(envPrefix, &spec); err != nil {
		_ = envconfig.Usage(envPrefix, &spec)
		return nil, errors.Wrap(err, "failed to parse configuration; see the ConfigSpec documentation in internal/app/appconfig")
	}

	if err := validator.New().Struct(&spec); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	if spec.UpdateDispatch == DispatchNATS && spec.NatsURL == "" {
		log.Warn().Msg("LOTTOSTATS_UPDATE_DISPATCH is nats but LOTTOSTATS_NATS_URL is empty; updates run in process")
	}

	return &Config{
		ConfigSpec: spec,
		AppContext: ctx,
	}, nil
}
