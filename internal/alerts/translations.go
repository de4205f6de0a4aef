package alerts

import (
	i18n "github.com/goliatone/go-i18n"
)

// Translations returns the default translation catalog for alert emails.
func Translations() i18n.Translations {
	return i18n.Translations{
		"en": newCatalog("en", map[string]string{
			"alerts.low_balance.subject":   "Low balance warning: %s",
			"alerts.low_balance.intro":     "Your projected cash balance drops below your alert threshold.",
			"alerts.low_balance.balance":   "Projected balance: %s",
			"alerts.low_balance.threshold": "Alert threshold: %s",
			"alerts.low_balance.footer":    "Review your dashboard for the full forecast.",
		}),
		"es": newCatalog("es", map[string]string{
			"alerts.low_balance.subject":   "Aviso de saldo bajo: %s",
			"alerts.low_balance.intro":     "Su saldo proyectado cae por debajo del umbral de alerta.",
			"alerts.low_balance.balance":   "Saldo proyectado: %s",
			"alerts.low_balance.threshold": "Umbral de alerta: %s",
			"alerts.low_balance.footer":    "Revise su panel para ver el pronóstico completo.",
		}),
	}
}

func newCatalog(locale string, entries map[string]string) *i18n.TranslationCatalog {
	catalog := &i18n.TranslationCatalog{
		Locale:   i18n.Locale{Code: locale},
		Messages: make(map[string]i18n.Message),
	}
	for key, template := range entries {
		msg := i18n.Message{}
		msg.SetContent(template)
		catalog.Messages[key] = msg
	}
	return catalog
}
