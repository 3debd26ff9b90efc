package service

import "github.com/rmelnikov/authgate/internal/observability/metrics"

func incrementUsersRegistered() {
	metrics.UsersRegistered.Inc()
}

func incrementRegistrationConflicts() {
	metrics.RegistrationConflicts.Inc()
}

func incrementLoginAttempts(outcome string) {
	metrics.LoginAttempts.WithLabelValues(outcome).Inc()
}

func incrementTokensIssued() {
	metrics.TokensIssued.Inc()
}

func incrementPasswordChanges() {
	metrics.PasswordChanges.Inc()
}
