// internal/storage/postgres/postgres.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/solwatch/wallet-analyzer/internal/storage"
	"github.com/solwatch/wallet-analyzer/internal/storage/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// gormLogger bridges GORM's logger.Interface onto zap.
type gormLogger struct {
	zapLogger *zap.Logger
	logLevel  logger.LogLevel
}

func newGormLogger(zapLogger *zap.Logger) logger.Interface {
	return &gormLogger{
		zapLogger: zapLogger,
		logLevel:  logger.Warn,
	}
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	newLogger := *l
	newLogger.logLevel = level
	return &newLogger
}

func (l *gormLogger) Info(_ context.Context, msg string, data ...interface{}) {
	if l.logLevel >= logger.Info {
		l.zapLogger.Sugar().Infof(msg, data...)
	}
}

func (l *gormLogger) Warn(_ context.Context, msg string, data ...interface{}) {
	if l.logLevel >= logger.Warn {
		l.zapLogger.Sugar().Warnf(msg, data...)
	}
}

func (l *gormLogger) Error(_ context.Context, msg string, data ...interface{}) {
	if l.logLevel >= logger.Error {
		l.zapLogger.Sugar().Errorf(msg, data...)
	}
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.logLevel <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.String("sql", sql),
		zap.Int64("rows", rows),
	}

	if err != nil {
		l.zapLogger.Error("trace", append(fields, zap.Error(err))...)
		return
	}

	if l.logLevel >= logger.Info {
		l.zapLogger.Info("trace", fields...)
	}
}

// postgresStorage implements the Storage interface.
type postgresStorage struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewStorage(dsn string, zapLogger *zap.Logger) (storage.Storage, error) {
	gormLogger := newGormLogger(zapLogger.Named("gorm"))

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		DisableForeignKeyConstraintWhenMigrating: true,
		SkipDefaultTransaction:                   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &postgresStorage{
		db:     db,
		logger: zapLogger,
	}, nil
}

func (p *postgresStorage) RunMigrations() error {
	// Advisory lock so concurrent analyzer instances never race migrations.
	var lockObtained bool
	err := p.db.Raw("SELECT pg_try_advisory_lock(4201)").Scan(&lockObtained).Error
	if err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	if !lockObtained {
		return fmt.Errorf("another migration is in progress")
	}
	defer p.db.Exec("SELECT pg_advisory_unlock(4201)")

	err = p.db.AutoMigrate(
		&models.SwapRecordRow{},
		&models.AnalysisRun{},
		&models.TokenMetricsRow{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func (p *postgresStorage) SaveSwapRecords(ctx context.Context, rows []*models.SwapRecordRow) error {
	if len(rows) == 0 {
		return nil
	}
	return p.db.WithContext(ctx).CreateInBatches(rows, 500).Error
}

func (p *postgresStorage) ListSwapRecords(ctx context.Context, walletAddress string) ([]*models.SwapRecordRow, error) {
	var rows []*models.SwapRecordRow
	err := p.db.WithContext(ctx).
		Where("wallet_address = ?", walletAddress).
		Order("timestamp asc").
		Find(&rows).Error
	return rows, err
}

func (p *postgresStorage) DeleteSwapRecords(ctx context.Context, walletAddress string) error {
	return p.db.WithContext(ctx).
		Where("wallet_address = ?", walletAddress).
		Delete(&models.SwapRecordRow{}).Error
}

// SaveAnalysis stores the run summary and its per-mint rows in one
// transaction so a run is never half-persisted.
func (p *postgresStorage) SaveAnalysis(ctx context.Context, run *models.AnalysisRun, tokens []*models.TokenMetricsRow) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return fmt.Errorf("save analysis run: %w", err)
		}
		if len(tokens) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(tokens, 500).Error; err != nil {
			return fmt.Errorf("save token metrics: %w", err)
		}
		return nil
	})
}

func (p *postgresStorage) GetLatestAnalysis(ctx context.Context, walletAddress string) (*models.AnalysisRun, error) {
	var run models.AnalysisRun
	err := p.db.WithContext(ctx).
		Where("wallet_address = ?", walletAddress).
		Order("analyzed_at desc").
		First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (p *postgresStorage) ListTokenMetrics(ctx context.Context, runID string) ([]*models.TokenMetricsRow, error) {
	var rows []*models.TokenMetricsRow
	err := p.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("mint asc").
		Find(&rows).Error
	return rows, err
}
