// Package catalog registers prefab values for common standard library and
// ecosystem types whose structure the reflective fallback cannot synthesise
// meaningfully.
package catalog

import (
	"errors"
	"math/big"
	"net"
	"net/netip"
	"net/url"
	"reflect"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/prefab/internal/core/ports"
	"go.trai.ch/prefab/internal/engine/factories"
	"go.trai.ch/prefab/internal/engine/prefab"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Registrar accepts factory registrations.
type Registrar interface {
	Register(t reflect.Type, f ports.Factory) error
}

type entry struct {
	typ     reflect.Type
	factory ports.Factory
}

var (
	redTime   = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	blackTime = time.Date(2021, time.February, 2, 0, 0, 0, 0, time.UTC)
)

func entries() []entry {
	return []entry{
		{reflect.TypeFor[time.Time](), factories.Values(redTime, blackTime, redTime)},
		{reflect.TypeFor[time.Duration](), factories.Values(time.Second, time.Minute, time.Second)},
		{reflect.TypeFor[*time.Location](), factories.Values(time.UTC, time.FixedZone("prefab", 3600), time.UTC)},
		{reflect.TypeFor[*big.Int](), factories.MustConstructor(big.NewInt, factories.Auto)},
		{reflect.TypeFor[*big.Float](), factories.MustConstructor(big.NewFloat, factories.Auto)},
		{reflect.TypeFor[url.URL](), factories.Values(
			url.URL{Scheme: "https", Host: "red.example"},
			url.URL{Scheme: "https", Host: "black.example"},
			url.URL{Scheme: "https", Host: "red.example"},
		)},
		{reflect.TypeFor[net.IP](), ipFactory()},
		{reflect.TypeFor[netip.Addr](), factories.Values(
			netip.MustParseAddr("127.0.0.1"),
			netip.MustParseAddr("127.0.0.2"),
			netip.MustParseAddr("127.0.0.1"),
		)},
		{reflect.TypeFor[*regexp.Regexp](), factories.MustConstructor(literal, factories.Auto)},
		{reflect.TypeFor[error](), factories.MustConstructor(errors.New, factories.Auto)},
		{reflect.TypeFor[uuid.UUID](), factories.Values(
			uuid.MustParse("00000000-0000-0000-0000-000000000001"),
			uuid.MustParse("00000000-0000-0000-0000-000000000002"),
			uuid.MustParse("00000000-0000-0000-0000-000000000001"),
		)},
		{reflect.TypeFor[codes.Code](), factories.Values(codes.InvalidArgument, codes.NotFound, codes.InvalidArgument)},
		{reflect.TypeFor[*status.Status](), factories.MustConstructor(status.New, factories.Auto, factories.Auto)},
	}
}

// AddTo registers the catalog on r.
func AddTo(r Registrar) error {
	for _, e := range entries() {
		if err := r.Register(e.typ, e.factory); err != nil {
			return err
		}
	}
	return nil
}

// Names returns a locator for the catalog types.
func Names() *prefab.NameTable {
	all := entries()
	types := make([]reflect.Type, len(all))
	for i, e := range all {
		types[i] = e.typ
	}
	return prefab.NewNameTable(types...)
}

// ipFactory builds fresh slices on every call, so red and redCopy do not
// share a backing array.
func ipFactory() ports.Factory {
	return factories.MustConstructor(func(last byte) net.IP {
		return net.IPv4(10, 0, 0, last)
	}, factories.Auto)
}

// literal compiles a pattern matching exactly s.
func literal(s string) (*regexp.Regexp, error) {
	return regexp.Compile("^" + regexp.QuoteMeta(s) + "$")
}
