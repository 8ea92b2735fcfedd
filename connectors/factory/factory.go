package factory

import (
	"errors"
	"strings"

	"github.com/kilianp07/teamgen/auth"
	"github.com/kilianp07/teamgen/connectors"
	"github.com/kilianp07/teamgen/connectors/csvfile"
	"github.com/kilianp07/teamgen/connectors/sheets"
)

var errEmptyRef = errors.New("roster source is empty")

// NewSource picks the source for ref: sheet links use the sheet client, any
// other http(s) link is rejected, everything else is a local file path.
func NewSource(ref string, cred auth.Conf) (connectors.Source, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return nil, errEmptyRef
	case sheets.IsSheetURL(ref):
		var opts []connectors.Option
		if cred.Enabled() {
			opts = append(opts, sheets.WithAuth(auth.NewClientCred(cred)))
		}
		return sheets.New(ref, opts...)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return nil, sheets.ErrInvalidSheetURL
	default:
		return &csvfile.Source{Path: ref}, nil
	}
}
