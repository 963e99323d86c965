package store

import "errors"

// NotFound covers both a name that never existed and a name that
// belonged to a superseded generation - the old set is gone wholesale.
var NotFound = errors.New("No stem by this name in the current stem set")
