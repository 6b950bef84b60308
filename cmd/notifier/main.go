package main

import (
	"log"
	"os"

	"birthday_notifier/internal/app"
	"birthday_notifier/internal/domain/email"
	"birthday_notifier/internal/infra/audit"
	"birthday_notifier/internal/infra/config"
	"birthday_notifier/internal/infra/excel"
	"birthday_notifier/internal/infra/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	appLogger := logger.Init(cfg)
	appLogger.Info("================================================================================")
	appLogger.Info("NEW PROGRAM RUN STARTED")
	appLogger.Info("================================================================================")
	appLogger.Infof("Configuration loaded. Dry run: %v", cfg.DryRun)
	appLogger.Infof("P_Status filter: %s", cfg.StatusFilter)

	companies := config.NewCompanyResolver(os.Getenv, cfg.Companies)

	loader := excel.NewLoader(appLogger)
	birthdays := app.NewBirthdayService(appLogger)
	trail := audit.NewTrail(cfg.AuditLogDir, appLogger)
	composer := email.NewComposer(cfg.AttachPath, appLogger)
	dispatch := app.NewDispatchService(
		app.NewSMTPDialer(cfg.SMTPTimeout),
		composer,
		trail,
		appLogger,
		cfg.DelayBetweenSends,
		cfg.DryRun,
	)

	runner := app.NewRunner(cfg, companies, loader, birthdays, dispatch, appLogger)

	// Workbooks come from CLI args, falling back to WORKBOOK_FILES.
	files := os.Args[1:]
	if len(files) == 0 {
		files = cfg.WorkbookFiles
	}
	if len(files) == 0 {
		appLogger.Error("No workbook files given (pass paths as arguments or set WORKBOOK_FILES)")
		os.Exit(1)
	}

	runner.Run(files)
}
