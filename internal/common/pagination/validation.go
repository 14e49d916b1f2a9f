package pagination

// WithDefaults applies default values from config to Params.
//
// Rules:
//   - If limit <= 0, set to config.DefaultLimit
//   - If limit > config.MaxLimit, cap to config.MaxLimit
//   - If offset < 0, set to 0
func (p Params) WithDefaults(config Config) Params {
	if p.Limit <= 0 {
		p.Limit = config.DefaultLimit
	}
	if p.Limit > config.MaxLimit {
		p.Limit = config.MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// IsDefault reports whether p is the first page at the default limit.
func (p Params) IsDefault(config Config) bool {
	return p.Offset == 0 && p.Limit == config.DefaultLimit
}
