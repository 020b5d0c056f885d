package escrow

import (
	"encoding/json"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/codec"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/gconf"
)

const pkgName = "escrow"

// ReleasePolicy decides on which side of the deadline a release is allowed.
type ReleasePolicy int32

const (
	// ReleaseAfterDeadline allows a release once the deadline is reached.
	// Release and reclaim mature together and the first one wins.
	ReleaseAfterDeadline ReleasePolicy = 1

	// ReleaseBeforeDeadline allows a release only strictly before the
	// deadline. After it only the initializer can reclaim.
	ReleaseBeforeDeadline ReleasePolicy = 2
)

var policyNames = map[ReleasePolicy]string{
	ReleaseAfterDeadline:  "AFTER_DEADLINE",
	ReleaseBeforeDeadline: "BEFORE_DEADLINE",
}

func (p ReleasePolicy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return "UNKNOWN"
}

func (p ReleasePolicy) Validate() error {
	if _, ok := policyNames[p]; !ok {
		return errors.Wrapf(errors.ErrInvalidInput, "release policy %d", p)
	}
	return nil
}

func (p ReleasePolicy) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts the policy name or its numeric value.
func (p *ReleasePolicy) UnmarshalJSON(raw []byte) error {
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		var n int32
		if err := json.Unmarshal(raw, &n); err != nil {
			return errors.Wrap(errors.ErrInvalidInput, "release policy")
		}
		*p = ReleasePolicy(n)
		return p.Validate()
	}
	for v, n := range policyNames {
		if n == name {
			*p = v
			return nil
		}
	}
	return errors.Wrapf(errors.ErrInvalidInput, "unknown release policy %q", name)
}

// Configuration is the escrow setup kept in the state. It is loaded from the
// genesis and can be changed by its owner.
type Configuration struct {
	// Owner can update the configuration. A configuration without an
	// owner cannot be changed.
	Owner timelock.Address `json:"owner"`
	// Admin is allowed to release any escrow to one of its receivers.
	Admin           timelock.Address `json:"admin"`
	DeadlineSeconds int64            `json:"deadline_seconds"`
	ReleasePolicy   ReleasePolicy    `json:"release_policy"`
	MaxReceivers    uint32           `json:"max_receivers"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

// DefaultConfiguration is used when no configuration was stored.
func DefaultConfiguration() Configuration {
	return Configuration{
		DeadlineSeconds: 86400,
		ReleasePolicy:   ReleaseAfterDeadline,
		MaxReceivers:    MaxReceiversLimit,
	}
}

func (c *Configuration) GetOwner() timelock.Address {
	return c.Owner
}

func (c *Configuration) Validate() error {
	var errs error
	if c.Owner != nil {
		errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	}
	if c.Admin != nil {
		errs = errors.AppendField(errs, "Admin", c.Admin.Validate())
	}
	if c.DeadlineSeconds <= 0 {
		errs = errors.AppendField(errs, "DeadlineSeconds", errors.ErrInvalidInput)
	}
	errs = errors.AppendField(errs, "ReleasePolicy", c.ReleasePolicy.Validate())
	if c.MaxReceivers == 0 || c.MaxReceivers > MaxReceiversLimit {
		errs = errors.AppendField(errs, "MaxReceivers", errors.ErrInvalidInput)
	}
	return errs
}

// validatePatch validates only the fields that are set.
func (c *Configuration) validatePatch() error {
	var errs error
	if c.Owner != nil {
		errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	}
	if c.Admin != nil {
		errs = errors.AppendField(errs, "Admin", c.Admin.Validate())
	}
	if c.DeadlineSeconds < 0 {
		errs = errors.AppendField(errs, "DeadlineSeconds", errors.ErrInvalidInput)
	}
	if c.ReleasePolicy != 0 {
		errs = errors.AppendField(errs, "ReleasePolicy", c.ReleasePolicy.Validate())
	}
	if c.MaxReceivers > MaxReceiversLimit {
		errs = errors.AppendField(errs, "MaxReceivers", errors.ErrInvalidInput)
	}
	return errs
}

func (c *Configuration) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Bytes(1, c.Owner)
	e.Bytes(2, c.Admin)
	e.Int64(3, c.DeadlineSeconds)
	e.Int64(4, int64(c.ReleasePolicy))
	e.Uint64(5, uint64(c.MaxReceivers))
	return e.Result()
}

func (c *Configuration) Unmarshal(raw []byte) error {
	*c = Configuration{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			c.Owner = d.Bytes()
		case 2:
			c.Admin = d.Bytes()
		case 3:
			c.DeadlineSeconds = d.Int64()
		case 4:
			c.ReleasePolicy = ReleasePolicy(d.Int64())
		case 5:
			c.MaxReceivers = uint32(d.Uint64())
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// loadConfiguration returns the stored configuration or the default one.
func loadConfiguration(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	switch err := gconf.Load(db, pkgName, &conf); {
	case err == nil:
		return &conf, nil
	case errors.ErrNotFound.Is(err):
		conf = DefaultConfiguration()
		return &conf, nil
	default:
		return nil, errors.Wrap(err, "load configuration")
	}
}
