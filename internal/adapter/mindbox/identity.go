package mindbox

import "github.com/driveback/destination-delivery-service/internal/domain/event"

// Identity provider names, in precedence order.
const (
	ProviderUserID      = "userId"
	ProviderEmail       = "email"
	ProviderMobilePhone = "mobilePhone"
)

// Identificator is a resolved (provider, identity) pair addressing a known
// customer at the vendor. It is never fabricated: an unresolvable identity
// yields the zero value, which call sites treat as "not actionable".
type Identificator struct {
	Provider string
	Identity string
}

func (i Identificator) Zero() bool { return i.Provider == "" }

func (i Identificator) Doc() map[string]any {
	return map[string]any{
		"provider": i.Provider,
		"identity": i.Identity,
	}
}

// identify resolves the best identity for the event. Providers are tried in
// fixed precedence: the configured primary userId provider, then email,
// then mobile phone. A hint restricts resolution to the named provider; it
// never forces a fabricated result, and if the hinted provider has no value
// resolution fails instead of falling through.
func (a *Adapter) identify(ev *event.Event, hint string) Identificator {
	user := ev.User
	if user == nil {
		return Identificator{}
	}

	if hint != "" {
		switch hint {
		case ProviderUserID:
			if a.cfg.UserIDProvider != "" && user.UserID != "" {
				return Identificator{Provider: a.cfg.UserIDProvider, Identity: user.UserID}
			}
		case ProviderEmail:
			if user.Email != "" {
				return Identificator{Provider: ProviderEmail, Identity: user.Email}
			}
		case ProviderMobilePhone:
			if user.Phone != "" {
				return Identificator{Provider: ProviderMobilePhone, Identity: user.Phone}
			}
		}
		return Identificator{}
	}

	if a.cfg.UserIDProvider != "" && user.UserID != "" {
		return Identificator{Provider: a.cfg.UserIDProvider, Identity: user.UserID}
	}
	if user.Email != "" {
		return Identificator{Provider: ProviderEmail, Identity: user.Email}
	}
	if user.Phone != "" {
		return Identificator{Provider: ProviderMobilePhone, Identity: user.Phone}
	}
	return Identificator{}
}
