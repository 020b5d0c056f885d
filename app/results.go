package app

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/codec"
	"github.com/iov-one/timelock/errors"
)

// ResultSet is the serialized list of keys or values returned by a query.
type ResultSet struct {
	Results [][]byte
}

func (r *ResultSet) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.RepeatedBytes(1, r.Results)
	return e.Result()
}

func (r *ResultSet) Unmarshal(raw []byte) error {
	*r = ResultSet{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			r.Results = append(r.Results, d.Bytes())
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// ResultsFromKeys returns a ResultSet of all keys given a set of models.
func ResultsFromKeys(models []timelock.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values given a set of models.
func ResultsFromValues(models []timelock.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues and makes them a
// consistent whole again.
func JoinResults(keys, values *ResultSet) ([]timelock.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrap(errors.ErrInvalidState, "result set size mismatch")
	}
	models := make([]timelock.Model, len(kref))
	for i := range models {
		models[i] = timelock.Pair(kref[i], vref[i])
	}
	return models, nil
}

// UnmarshalOneResult parses a result set and, if it is not empty, unmarshals
// the first result into o. ErrNotFound is returned for an empty set.
func UnmarshalOneResult(raw []byte, o timelock.Persistent) error {
	var res ResultSet
	if err := res.Unmarshal(raw); err != nil {
		return err
	}
	if len(res.Results) == 0 {
		return errors.ErrNotFound
	}
	return o.Unmarshal(res.Results[0])
}
