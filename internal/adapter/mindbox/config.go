package mindbox

import (
	"github.com/driveback/destination-delivery-service/internal/domain/event"
	"github.com/driveback/destination-delivery-service/internal/fieldpath"
)

// Protocol selects between the two mutually exclusive payload-shaping modes
// of the destination API.
type Protocol string

const (
	// ProtocolLegacy is the imperative performOperation/identify surface
	// with flattened action objects.
	ProtocolLegacy Protocol = "legacy"
	// ProtocolStructured is the async surface with nested customer/product
	// objects addressed by multi-system identifier maps.
	ProtocolStructured Protocol = "structured"
)

// Config is the full static configuration of one adapter instance. It is
// constructed once and never mutated afterwards; the adapter owns it
// exclusively.
type Config struct {
	// Protocol defaults to ProtocolLegacy.
	Protocol Protocol

	// Vendor account identifiers sent with the create handshake.
	ProjectSystemName        string
	BrandSystemName          string
	PointOfContactSystemName string
	ProjectDomain            string

	// OperationMapping binds semantic (or operator-declared custom) event
	// names to vendor operation names. Keys outside the semantic set extend
	// the adapter's accepted events automatically.
	OperationMapping map[event.Name]string

	// SetCartOperation, when set, turns page views into cart sync calls.
	SetCartOperation string

	// UserIDProvider names the primary identity provider for user.userId
	// based identification. Empty disables the primary provider.
	UserIDProvider string

	// UserVars maps customer data keys to event paths or constants.
	UserVars fieldpath.Mapping

	// ProductVars maps custom product keys to product-relative paths.
	ProductVars map[string]string

	// Multi-system identifier tables. Product and SKU tables are
	// product-relative, category and customer tables are event-relative.
	ProductIDs         map[string]string
	ProductSKUIDs      map[string]string
	ProductCategoryIDs fieldpath.Mapping
	CustomerIDs        fieldpath.Mapping
}

func (c Config) withDefaults() Config {
	if c.Protocol == "" {
		c.Protocol = ProtocolLegacy
	}
	return c
}
