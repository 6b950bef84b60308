package app

import (
	"os"
	"time"

	"birthday_notifier/internal/infra/config"
	"birthday_notifier/internal/infra/excel"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Runner orchestrates the full run: one workbook at a time, with pacing
// between companies. A failing source is logged and skipped; the run
// itself never aborts early because of one source.
type Runner struct {
	cfg       *config.AppConfig
	companies *config.CompanyResolver
	loader    *excel.Loader
	birthdays *BirthdayService
	dispatch  *DispatchService
	log       *logrus.Logger
	now       func() time.Time
}

func NewRunner(
	cfg *config.AppConfig,
	companies *config.CompanyResolver,
	loader *excel.Loader,
	birthdays *BirthdayService,
	dispatch *DispatchService,
	log *logrus.Logger,
) *Runner {
	return &Runner{
		cfg:       cfg,
		companies: companies,
		loader:    loader,
		birthdays: birthdays,
		dispatch:  dispatch,
		log:       log,
		now:       time.Now,
	}
}

// Run processes every workbook sequentially.
func (r *Runner) Run(files []string) {
	r.log.Info("Starting birthday notifier run")

	for i, path := range files {
		if _, err := os.Stat(path); err != nil {
			r.log.Errorf("File not found: %s", path)
			continue
		}
		if err := r.ProcessSource(path); err != nil {
			r.log.Errorf("Failed to process %s: %v", path, err)
		}

		// Pacing between companies/files, distinct from the
		// per-recipient delay.
		if i < len(files)-1 {
			r.log.Infof("Pacing between company files for %s...", r.cfg.DelayBetweenCompanies)
			time.Sleep(r.cfg.DelayBetweenCompanies)
		}
	}

	r.log.Info("Birthday notifier run completed")
}

// ProcessSource runs the full pipeline for one workbook: company
// detection, config resolution, load, filter, resolve, dispatch.
// The company config is resolved before any data loading so a broken
// config fails the source up front.
func (r *Runner) ProcessSource(path string) error {
	r.log.Infof("Processing file: %s", path)

	company := r.companies.DetectCompany(path)
	r.log.Infof("Company for this file: %s", company)

	cfg, err := r.companies.Get(company)
	if err != nil {
		return errors.Wrapf(err, "resolve config for %s", company)
	}

	tables, err := r.loader.Load(path)
	if err != nil {
		return errors.Wrapf(err, "load data from %s", path)
	}

	matches := r.birthdays.FilterTodaysBirthdays(tables.Employees, tables.Statuses, r.now(), r.cfg.StatusFilter)
	if len(matches) == 0 {
		r.log.Infof("No birthdays on %s for %s", r.now().Format("2006-01-02"), company)
		return nil
	}

	recipients := r.birthdays.ResolveRecipients(matches, tables.Contacts)
	if len(recipients) == 0 {
		r.log.Warn("No valid email addresses found for birthday recipients")
		return nil
	}

	_, err = r.dispatch.Dispatch(recipients, path, company, cfg)
	return err
}
