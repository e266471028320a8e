package quadra

// Number extracts the territory number shown on cards and in the log:
// digits from a quadra/cartão property first, then from the name, then
// from the id. Features with no digits anywhere fall back to the id.
func (f *Feature) Number() string {
	for _, key := range f.Props.Keys() {
		if !keyContains(foldKey(key), "quadra", "cartao") {
			continue
		}
		raw, _ := f.Props.Get(key)
		if val, ok := stringValue(raw); ok {
			if run := digitRun(val); run != "" {
				return run
			}
		}
	}
	if run := digitRun(f.Nome); run != "" {
		return run
	}
	if run := digitRun(f.ID); run != "" {
		return run
	}
	return f.ID
}
