package ecs

// Bundle inserts a group of components into a freshly spawned entity. It adds
// no behaviour of its own: every bundle is a sequence of AddComponent calls.
type Bundle interface {
	Insert(w *World, e Entity) error
}

// BundleFunc adapts a function to a Bundle.
type BundleFunc func(w *World, e Entity) error

func (f BundleFunc) Insert(w *World, e Entity) error { return f(w, e) }

// With is the single-component bundle.
func With[T Component](v T) Bundle {
	return BundleFunc(func(w *World, e Entity) error {
		return AddComponent(w, e, v)
	})
}

// Bundles groups bundles so they can be passed around as one.
type Bundles []Bundle

func (bs Bundles) Insert(w *World, e Entity) error {
	for _, b := range bs {
		if err := b.Insert(w, e); err != nil {
			return err
		}
	}
	return nil
}

// Spawn creates an entity and inserts every bundle in order. If any insert
// fails the partly built entity is despawned and the error returned.
func (w *World) Spawn(bundles ...Bundle) (Entity, error) {
	e := w.SpawnEntity()
	if err := Bundles(bundles).Insert(w, e); err != nil {
		_ = w.DespawnEntity(e)
		return Entity{}, err
	}
	return e, nil
}
