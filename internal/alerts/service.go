package alerts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	i18n "github.com/goliatone/go-i18n"
	gotemplate "github.com/goliatone/go-template"

	"github.com/goliatone/go-cashflow/pkg/interfaces/logger"
)

var (
	errMailerRequired = errors.New("alerts: mailer is required")

	ErrMissingRecipient = errors.New("alerts: recipient is required")
)

const subjectTemplate = `{{ t(locale, "alerts.low_balance.subject", BusinessName) }}`

const bodyTemplate = `<p>{{ t(locale, "alerts.low_balance.intro") }}</p>
<p><strong>{{ t(locale, "alerts.low_balance.balance", Balance) }}</strong></p>
<p>{{ t(locale, "alerts.low_balance.threshold", Threshold) }}</p>
<p>{{ t(locale, "alerts.low_balance.footer") }}</p>`

// Dependencies wires delivery and localization into the service.
type Dependencies struct {
	Mailer Mailer
	// Translator overrides the built-in catalog. Optional.
	Translator i18n.Translator
	// ThresholdCents is the balance below which an alert fires.
	ThresholdCents int64
	DefaultLocale  string
	Logger         logger.Logger
}

// Service emails a warning when the projected balance drops under the
// configured threshold.
type Service struct {
	mailer        Mailer
	renderer      *gotemplate.Engine
	threshold     int64
	defaultLocale string
	log           logger.Logger
	renderMu      sync.Mutex
}

// New constructs the alert service.
func New(deps Dependencies) (*Service, error) {
	if deps.Mailer == nil {
		return nil, errMailerRequired
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	if deps.DefaultLocale == "" {
		deps.DefaultLocale = "en"
	}
	translator := deps.Translator
	if translator == nil {
		store := i18n.NewStaticStore(Translations())
		var err error
		translator, err = i18n.NewSimpleTranslator(store, i18n.WithTranslatorDefaultLocale(deps.DefaultLocale))
		if err != nil {
			return nil, fmt.Errorf("alerts: translator: %w", err)
		}
	}

	renderer, err := gotemplate.NewRenderer(gotemplate.WithBaseDir("."))
	if err != nil {
		return nil, fmt.Errorf("alerts: renderer: %w", err)
	}
	helpers := i18n.TemplateHelpers(translator, i18n.HelperConfig{
		LocaleKey:         "locale",
		TemplateHelperKey: "t",
	})
	gotemplate.WithTemplateFunc(helpers)(renderer)

	return &Service{
		mailer:        deps.Mailer,
		renderer:      renderer,
		threshold:     deps.ThresholdCents,
		defaultLocale: deps.DefaultLocale,
		log:           deps.Logger,
	}, nil
}

// Check describes one balance evaluation.
type Check struct {
	To           string
	BusinessName string
	Locale       string
	BalanceCents int64
	Currency     string
}

// CheckBalance fires a low-balance email when the balance is under the
// threshold. Returns true when an alert was sent.
func (s *Service) CheckBalance(ctx context.Context, check Check) (bool, error) {
	if check.BalanceCents >= s.threshold {
		s.log.Debug("balance above threshold, no alert",
			"balance_cents", check.BalanceCents,
			"threshold_cents", s.threshold,
		)
		return false, nil
	}
	if strings.TrimSpace(check.To) == "" {
		return false, ErrMissingRecipient
	}
	locale := check.Locale
	if locale == "" {
		locale = s.defaultLocale
	}

	payload := map[string]any{
		"locale":       locale,
		"BusinessName": check.BusinessName,
		"Balance":      formatMoney(check.BalanceCents, check.Currency),
		"Threshold":    formatMoney(s.threshold, check.Currency),
	}

	s.renderMu.Lock()
	subject, err := s.renderer.RenderString(subjectTemplate, payload)
	if err != nil {
		s.renderMu.Unlock()
		return false, fmt.Errorf("alerts: render subject: %w", err)
	}
	body, err := s.renderer.RenderString(bodyTemplate, payload)
	s.renderMu.Unlock()
	if err != nil {
		return false, fmt.Errorf("alerts: render body: %w", err)
	}

	if err := s.mailer.Send(ctx, Email{
		To:      check.To,
		Subject: subject,
		HTML:    body,
	}); err != nil {
		return false, err
	}
	s.log.Warn("low balance alert sent",
		"to", check.To,
		"balance_cents", check.BalanceCents,
	)
	return true, nil
}

func formatMoney(cents int64, currency string) string {
	if currency == "" {
		currency = "USD"
	}
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%s%d.%02d", sign, currency+" ", cents/100, cents%100)
}
