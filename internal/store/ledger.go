// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/Redbattlebot/Astrev2/internal/logger"
	"github.com/Redbattlebot/Astrev2/internal/metrics"
	"github.com/Redbattlebot/Astrev2/models"
)

// RedemptionResult is the outcome of a key redemption.
type RedemptionResult int

const (
	RedemptionNotFound RedemptionResult = iota
	RedemptionExhausted
	Redeemed
)

func (r RedemptionResult) String() string {
	switch r {
	case Redeemed:
		return "redeemed"
	case RedemptionExhausted:
		return "exhausted"
	default:
		return "not_found"
	}
}

// ErrInvalidKeyUses is returned when provisioning a key with fewer than one use.
var ErrInvalidKeyUses = errors.New("registration key needs at least one use")

// keyLedger decrements uses with one conditional UPDATE, so two concurrent
// redemptions can never both consume the last use.
type keyLedger struct {
	runner  Runner
	metrics *metrics.Collector
}

// NewKeyLedger returns a [KeyLedger] running on runner.
func NewKeyLedger(runner Runner, collector *metrics.Collector) KeyLedger {
	return &keyLedger{runner: runner, metrics: collector}
}

func (l *keyLedger) Within(q Querier) KeyLedger {
	return &keyLedger{runner: Bind(q), metrics: l.metrics}
}

// Redeem consumes one use of keyID. A missing key and a key with no uses
// left are reported through the result, not as errors.
func (l *keyLedger) Redeem(ctx context.Context, keyID string) (RedemptionResult, error) {
	log := logger.FromContext(ctx)

	res, err := l.runner.Query(ctx, redeemKey, keyID)
	if err != nil {
		log.Err(err).Str("func", "*keyLedger.Redeem").Msg("failed to redeem registration key")
		return RedemptionNotFound, err
	}

	result := Redeemed
	if len(res) == 0 {
		lookup, err := l.runner.Query(ctx, selectKeyUses, keyID)
		if err != nil {
			log.Err(err).Str("func", "*keyLedger.Redeem").Msg("failed to look up registration key")
			return RedemptionNotFound, err
		}

		result = RedemptionExhausted
		if len(lookup) == 0 {
			result = RedemptionNotFound
		}
	}

	l.metrics.RecordKeyRedemption(result.String())
	log.Info().Stringer("result", result).Msg("registration key redemption")

	return result, nil
}

// Provision creates keyID with uses remaining.
func (l *keyLedger) Provision(ctx context.Context, keyID string, uses int) (models.RegistrationKey, error) {
	if keyID == "" {
		return models.RegistrationKey{}, ErrKeyMalformed
	}
	if uses < 1 {
		return models.RegistrationKey{}, ErrInvalidKeyUses
	}

	res, err := l.runner.Query(ctx, provisionKey, keyID, uses)
	if err != nil {
		if constraint, ok := isUniqueViolation(err); ok && constraint == constraintRegistrationKey {
			return models.RegistrationKey{}, ErrKeyExists
		}
		return models.RegistrationKey{}, err
	}

	rec, ok := res.First()
	if !ok {
		return models.RegistrationKey{}, fmt.Errorf("%w: no row returned", ErrExecutingQuery)
	}

	key := models.RegistrationKey{}
	if key.ID, err = rec.String("id"); err != nil {
		return models.RegistrationKey{}, err
	}
	usesLeft, err := rec.Int64("uses_left")
	if err != nil {
		return models.RegistrationKey{}, err
	}
	key.UsesLeft = int(usesLeft)
	if key.CreatedAt, err = rec.Time("created_at"); err != nil {
		return models.RegistrationKey{}, err
	}

	return key, nil
}

// ParseKey extracts the key id from raw, which must be prefix followed by
// at least one character.
func ParseKey(prefix, raw string) (string, error) {
	re, err := regexp.Compile("^" + regexp.QuoteMeta(prefix) + "(.+)$")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrKeyMalformed, err)
	}

	match := re.FindStringSubmatch(raw)
	if match == nil {
		return "", ErrKeyMalformed
	}

	return match[1], nil
}
