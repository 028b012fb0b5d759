//go:build !linux && !darwin

package shmchannel

// Segment is a placeholder on platforms without shared memory support.
// Create always returns ErrUnavailable, so no instance is ever built.
type Segment struct{}

// View is a placeholder on platforms without shared memory support.
type View struct{}

func create(name string, size int) (*Segment, error) { return nil, ErrUnavailable }
func attach(name string, size int) (*View, error)    { return nil, ErrUnavailable }

func (s *Segment) Name() string           { return "" }
func (s *Segment) Size() int              { return 0 }
func (s *Segment) Publish(p []byte) error { return ErrUnavailable }
func (s *Segment) Destroy()               {}

func (v *View) Bytes() []byte { return nil }
func (v *View) Detach()       {}
