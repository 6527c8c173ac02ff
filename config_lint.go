package tokenauth

import (
	"fmt"
	"time"

	"github.com/MrEthical07/tokenauth/jwt"
)

// LintWarning is a configuration that is valid but probably a mistake.
type LintWarning struct {
	Code    string
	Message string
}

// LintWarnings is the result of [Config.Lint].
type LintWarnings []LintWarning

// Codes returns the warning codes in order.
func (ws LintWarnings) Codes() []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Code)
	}
	return out
}

const (
	lintExpireLong = 24 * time.Hour
	lintLeewayHigh = time.Minute
)

// Lint reports risky settings. It never fails. Algorithm checks are skipped
// when the algorithm does not parse.
func (c *Config) Lint() LintWarnings {
	var ws LintWarnings
	add := func(code, msg string) {
		ws = append(ws, LintWarning{Code: code, Message: msg})
	}

	alg, algErr := jwt.ParseSignatureAlgorithm(c.JWT.SignatureAlgorithm)
	if algErr == nil {
		if c.JWT.AllowUnsecured {
			if alg.IsUnsecured() {
				add("unsecured_allowed", "unsigned tokens are issued and accepted")
			} else {
				add("unsecured_ignored", fmt.Sprintf("AllowUnsecured has no effect with %s", alg))
			}
		}
		if want := alg.MinSharedKeyBytes(); want > 0 && len(c.JWT.SharedKey) > 0 && len(c.JWT.SharedKey) < want {
			add("shared_key_short", fmt.Sprintf("%s shared key is %d bytes, want at least %d", alg, len(c.JWT.SharedKey), want))
		}
	}

	if c.JWT.ExpireTime <= 0 {
		add("no_expiration", "tokens never expire")
	} else if c.JWT.ExpireTime > lintExpireLong {
		add("expire_long", fmt.Sprintf("token lifetime %s exceeds %s", c.JWT.ExpireTime, lintExpireLong))
	}
	if c.JWT.Leeway > lintLeewayHigh {
		add("leeway_large", fmt.Sprintf("leeway %s exceeds %s", c.JWT.Leeway, lintLeewayHigh))
	}
	if c.JWT.Issuer != "" && len(c.Policy.Issuers) == 0 {
		add("no_issuer_policy", "tokens carry an issuer but no issuer allow-list is enforced")
	}
	if c.JWT.IncludeDetails && !c.JWT.IncludePermissions {
		add("details_without_permissions", "principal parameters travel in tokens but permissions do not")
	}
	return ws
}
