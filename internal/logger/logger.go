package logger

import (
	"context"

	common_models "sk-pengajuan/internal/common/models"
	"sk-pengajuan/internal/config"
	"sk-pengajuan/internal/database"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewLogger builds the console logger and tees it into the Mongo "logs" collection
func NewLogger(lc fx.Lifecycle, cfg *config.Config, mongodb *database.MongodbDB) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Environment == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Caller is needed for the function name in DB records
	zapConfig.EncoderConfig.FunctionKey = "func"

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	logs := mongodb.DB.Collection("logs")
	dbWriter := NewDBLogWriter(func(ctx context.Context, record common_models.Log) error {
		_, err := logs.InsertOne(ctx, record)
		return err
	}, cfg.AppId)

	logger := zap.New(NewDBCore(baseLogger.Core(), dbWriter), zap.AddCaller())

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = logger.Sync()
			dbWriter.Close()
			return nil
		},
	})

	return logger, nil
}
