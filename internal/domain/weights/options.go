package weights

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithMarginCap caps the margin entering the margin factor.
func WithMarginCap(cap int) Option {
	return func(c *Calculator) {
		if cap >= 1 {
			c.marginCap = cap
		}
	}
}

// WithLambdaDecay sets the recency decay rate λ.
func WithLambdaDecay(lambda float64) Option {
	return func(c *Calculator) {
		if lambda >= 0 {
			c.lambdaDecay = lambda
		}
	}
}

// WithVenueFactors sets the home/neutral/away multipliers.
func WithVenueFactors(home, neutral, away float64) Option {
	return func(c *Calculator) {
		if home > 0 && neutral > 0 && away > 0 {
			c.homeFactor = home
			c.neutralFac = neutral
			c.awayFactor = away
		}
	}
}

// WithShrinkageK sets the shrinkage sample-size constant k.
func WithShrinkageK(k float64) Option {
	return func(c *Calculator) {
		if k > 0 {
			c.shrinkageK = k
		}
	}
}

// WithShrinkage enables or disables shrinkage toward the neutral prior.
// Hindsight mode disables it and trusts the current ratings outright.
func WithShrinkage(enabled bool) Option {
	return func(c *Calculator) {
		c.shrinkage = enabled
	}
}

// WithWinProbC sets the logistic scale constant C.
func WithWinProbC(scale float64) Option {
	return func(c *Calculator) {
		if scale > 0 {
			c.winProbC = scale
		}
	}
}

// WithRiskExponent sets the risk exponent B.
func WithRiskExponent(b float64) Option {
	return func(c *Calculator) {
		if b > 0 {
			c.riskB = b
		}
	}
}

// WithSurprise sets the surprise multiplier γ and its cap.
func WithSurprise(gamma, cap float64) Option {
	return func(c *Calculator) {
		if gamma >= 0 && cap >= 1 {
			c.gamma = gamma
			c.surpriseCap = cap
		}
	}
}

// WithBowlBump sets the postseason credit multiplier.
func WithBowlBump(bump float64) Option {
	return func(c *Calculator) {
		if bump > 0 {
			c.bowlBump = bump
		}
	}
}
