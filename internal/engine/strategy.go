package engine

// SearchStrategy is one of the five file-ordering strategies the engine
// exposes for §4.5's search-strategy analyzer.
type SearchStrategy string

const (
	RiskWeighted  SearchStrategy = "RiskWeighted"
	BoundaryFirst SearchStrategy = "BoundaryFirst"
	LanguageFamily SearchStrategy = "LanguageFamily"
	BreadthFirst  SearchStrategy = "BreadthFirst"
	DepthFirst    SearchStrategy = "DepthFirst"
)

// strategyRules derives PreferredStrategy(s) from project-characteristic
// facts (HasCrossLanguageBoundaries, IsLargeProject, HasHighRiskCategory),
// per §4.4: "Strategy selection is itself a backward query". The catalogue
// favours the most specific applicable signal; when none apply
// BreadthFirst is the universal fallback base case.
func strategyRules() []Rule {
	must := func(r Rule, err error) Rule {
		if err != nil {
			panic(err) // embedded catalogue: a failure here is a programmer error at init, consistent with §4.2's PatternLoadError contract
		}
		return r
	}

	return []Rule{
		must(NewRule("prefer_boundary_first",
			PredFact(PredPreferredStrategy, Const(string(BoundaryFirst))),
			PredFact(PredHasCrossLangBoundaries, ConstBoolean(true)),
		)),
		must(NewRule("prefer_risk_weighted",
			PredFact(PredPreferredStrategy, Const(string(RiskWeighted))),
			PredFact(PredHasHighRiskCategory, ConstBoolean(true)),
		)),
		must(NewRule("prefer_language_family",
			PredFact(PredPreferredStrategy, Const(string(LanguageFamily))),
			PredFact(PredIsLargeProject, ConstBoolean(true)),
		)),
		must(NewRule("prefer_breadth_first",
			PredFact(PredPreferredStrategy, Const(string(BreadthFirst))),
			PredFact("always_true", ConstBoolean(true)),
		)),
	}
}

// ProjectCharacteristics is the fact-level input to SelectStrategy.
type ProjectCharacteristics struct {
	HasCrossLanguageBoundaries bool
	IsLargeProject             bool
	HasHighRiskCategory        bool
}

// SelectStrategy runs the strategy-selection backward query described in
// §4.4, returning the highest-priority PreferredStrategy(s) proof. The
// rule catalogue is ordered most-specific-first, so the first rule whose
// guard facts hold wins.
func SelectStrategy(c ProjectCharacteristics) SearchStrategy {
	d := NewDatabase(
		NewFact(PredHasCrossLangBoundaries, ConstBoolean(c.HasCrossLanguageBoundaries)),
		NewFact(PredIsLargeProject, ConstBoolean(c.IsLargeProject)),
		NewFact(PredHasHighRiskCategory, ConstBoolean(c.HasHighRiskCategory)),
		NewFact("always_true", ConstBoolean(true)),
	)
	rules := strategyRules()

	for _, want := range []SearchStrategy{BoundaryFirst, RiskWeighted, LanguageFamily, BreadthFirst} {
		results := d.Query(PredFact(PredPreferredStrategy, Const(string(want))), rules)
		if len(results) > 0 {
			return want
		}
	}
	return BreadthFirst
}
