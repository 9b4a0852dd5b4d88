package unit

import (
	"fmt"
	"io"
	"strings"

	sdunit "github.com/coreos/go-systemd/v22/unit"

	"convoy/internal/resolve"
)

// Directive carries the ordering and conflict constraints for one service,
// in the shape the process-supervision layer consumes. Wants lists the hard
// providers the service needs; After additionally includes the declared soft
// orderings; Conflicts passes the declared negative constraints through.
type Directive struct {
	Service   string   `json:"service" yaml:"service"`
	Wants     []string `json:"wants" yaml:"wants"`
	After     []string `json:"after" yaml:"after"`
	Conflicts []string `json:"conflicts" yaml:"conflicts"`
}

// FromResolved derives the supervisor directive for one resolved service.
// After is the union of hard providers and soft after-targets, without
// duplicates, preserving their resolved order.
func FromResolved(res resolve.Resolved) Directive {
	d := Directive{
		Service:   res.Name,
		Wants:     append([]string(nil), res.Requires...),
		Conflicts: append([]string(nil), res.Conflicts...),
	}
	seen := make(map[string]bool, len(res.Requires))
	for _, name := range res.Requires {
		seen[name] = true
		d.After = append(d.After, name)
	}
	for _, name := range res.AfterServices {
		if !seen[name] {
			d.After = append(d.After, name)
		}
	}
	return d
}

// DropIn renders the directive as a systemd drop-in fragment for the
// service's unit. Only the ordering and conflict options are emitted; full
// unit generation happens downstream.
func (d Directive) DropIn() (string, error) {
	var opts []*sdunit.UnitOption
	for _, name := range d.Wants {
		opts = append(opts, sdunit.NewUnitOption("Unit", "Wants", unitName(name)))
	}
	for _, name := range d.After {
		opts = append(opts, sdunit.NewUnitOption("Unit", "After", unitName(name)))
	}
	for _, name := range d.Conflicts {
		opts = append(opts, sdunit.NewUnitOption("Unit", "Conflicts", unitName(name)))
	}
	data, err := io.ReadAll(sdunit.Serialize(opts))
	if err != nil {
		return "", fmt.Errorf("serializing drop-in for %s: %w", d.Service, err)
	}
	return string(data), nil
}

// FileName returns the drop-in file name for the directive's service.
func (d Directive) FileName() string {
	return fmt.Sprintf("%s.conf", d.Service)
}

func unitName(service string) string {
	if strings.HasSuffix(service, ".service") {
		return service
	}
	return service + ".service"
}
