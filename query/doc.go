// Package query parses the textual behavioral query language into a
// behavior tree.
//
// 🚀 The language:
//
//	A case-insensitive infix grammar over natural-ish phrases:
//
//	    Anna and Bob run towards each other for at least 10 seconds,
//	    then Bob walks away from Anna
//
//	Actions describe speed ("walks", "runs", "moves", "stands"),
//	direction ("straight", "to the left", "opposite"), relations
//	("towards X", "away from X", "alongside X", "near X", "far from X",
//	 "adjacent to X", "in parallel", "independently",
//	 "in opposite directions") of one or more actors, optionally followed
//	by a time constraint:
//
//	    for at least / at most / approximately N seconds|minutes|hours
//	    for between N and M seconds|minutes|hours
//
//	"approximately N" is read as the window [0.8·N, 1.2·N]. The priority
//	marker "must" wraps the action in a confidence restriction with the
//	configured default floor. "[label] …" names the following group, and
//	parentheses override precedence.
//
// ✨ Precedence, loose to tight: THEN, label, OR, AND, NOT.
//
// ⚙️ Errors:
//
//	Malformed input is rejected with a *QueryError carrying the offending
//	token position; structural misuse ("each other" with a single actor)
//	is caught here too, before the engine ever runs.
package query
