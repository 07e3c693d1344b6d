package materialize

import (
	"github.com/ajitpratap0/quoteframe/pkg/testutil"
)

var (
	strPtr          = testutil.StrPtr
	infyQuote       = testutil.InfyQuote
	syntheticQuotes = testutil.SyntheticQuotes
)
