package domain

type Bot struct {
	ID                string  `json:"_id"`
	Owner             string  `json:"owner"`
	Token             string  `json:"token"`
	Public            bool    `json:"public"`
	Analytics         bool    `json:"analytics,omitempty"`
	Discoverable      bool    `json:"discoverable,omitempty"`
	InteractionsURL   *string `json:"interactions_url,omitempty"`
	TermsOfServiceURL *string `json:"terms_of_service_url,omitempty"`
	PrivacyPolicyURL  *string `json:"privacy_policy_url,omitempty"`
	Flags             *int32  `json:"flags,omitempty"`
}

type PartialBot struct {
	Owner             *string `json:"owner,omitempty"`
	Token             *string `json:"token,omitempty"`
	Public            *bool   `json:"public,omitempty"`
	Analytics         *bool   `json:"analytics,omitempty"`
	Discoverable      *bool   `json:"discoverable,omitempty"`
	InteractionsURL   *string `json:"interactions_url,omitempty"`
	TermsOfServiceURL *string `json:"terms_of_service_url,omitempty"`
	PrivacyPolicyURL  *string `json:"privacy_policy_url,omitempty"`
	Flags             *int32  `json:"flags,omitempty"`
}

// FieldsBot names the bot fields that can be removed.
// A bot always needs a token, so Token is replaced through the patch, never removed.
type FieldsBot string

const (
	FieldsBotInteractionsURL   FieldsBot = "InteractionsURL"
	FieldsBotTermsOfServiceURL FieldsBot = "TermsOfServiceURL"
	FieldsBotPrivacyPolicyURL  FieldsBot = "PrivacyPolicyURL"
)

func (f FieldsBot) Valid() bool {
	switch f {
	case FieldsBotInteractionsURL, FieldsBotTermsOfServiceURL, FieldsBotPrivacyPolicyURL:
		return true
	}
	return false
}

func (f *FieldsBot) UnmarshalJSON(data []byte) error {
	return unmarshalField(data, f)
}

func (b *Bot) Apply(p PartialBot) {
	if p.Owner != nil {
		b.Owner = *p.Owner
	}
	if p.Token != nil {
		b.Token = *p.Token
	}
	if p.Public != nil {
		b.Public = *p.Public
	}
	if p.Analytics != nil {
		b.Analytics = *p.Analytics
	}
	if p.Discoverable != nil {
		b.Discoverable = *p.Discoverable
	}
	if p.InteractionsURL != nil {
		b.InteractionsURL = clonePtr(p.InteractionsURL)
	}
	if p.TermsOfServiceURL != nil {
		b.TermsOfServiceURL = clonePtr(p.TermsOfServiceURL)
	}
	if p.PrivacyPolicyURL != nil {
		b.PrivacyPolicyURL = clonePtr(p.PrivacyPolicyURL)
	}
	if p.Flags != nil {
		b.Flags = clonePtr(p.Flags)
	}
}

func (b *Bot) Remove(field FieldsBot) {
	switch field {
	case FieldsBotInteractionsURL:
		b.InteractionsURL = nil
	case FieldsBotTermsOfServiceURL:
		b.TermsOfServiceURL = nil
	case FieldsBotPrivacyPolicyURL:
		b.PrivacyPolicyURL = nil
	}
}
