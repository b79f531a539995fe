package ecs

// System1 invokes fn once for every live entity matching the 1-position query.
// It returns the number of invocations.
// Despawns and component changes made by fn are applied after the pass.
func System1[A Component](w *World, pa Param[A], fn func(Entity, *A)) int {
	w.beginDispatch()
	defer w.endDispatch()
	var pl plan
	ta := pa.bind(w, &pl)
	n := 0
	for _, e := range w.snapshot(&pl) {
		rec, ok := w.candidate(e)
		if !ok {
			continue
		}
		a, ok := ta.get(w, rec)
		if !ok {
			continue
		}
		fn(e, a)
		n++
	}
	return n
}

// EntitySystem1 invokes fn for e alone. It reports whether fn ran; a
// missing required component is not an error.
// Despawns and component changes made by fn are applied after it returns.
func EntitySystem1[A Component](w *World, e Entity, pa Param[A], fn func(Entity, *A)) (bool, error) {
	w.beginDispatch()
	defer w.endDispatch()
	var pl plan
	ta := pa.bind(w, &pl)
	rec, ok := w.record(e)
	if !ok {
		return false, entityNotFound(e)
	}
	a, ok := ta.get(w, rec)
	if !ok {
		return false, nil
	}
	fn(e, a)
	return true, nil
}

// System2 invokes fn once for every live entity matching the 2-position query.
// It returns the number of invocations.
// Despawns and component changes made by fn are applied after the pass.
func System2[A, B Component](w *World, pa Param[A], pb Param[B], fn func(Entity, *A, *B)) int {
	w.beginDispatch()
	defer w.endDispatch()
	var pl plan
	ta := pa.bind(w, &pl)
	tb := pb.bind(w, &pl)
	n := 0
	for _, e := range w.snapshot(&pl) {
		rec, ok := w.candidate(e)
		if !ok {
			continue
		}
		a, ok := ta.get(w, rec)
		if !ok {
			continue
		}
		b, ok := tb.get(w, rec)
		if !ok {
			continue
		}
		fn(e, a, b)
		n++
	}
	return n
}

// EntitySystem2 invokes fn for e alone. It reports whether fn ran; a
// missing required component is not an error.
// Despawns and component changes made by fn are applied after it returns.
func EntitySystem2[A, B Component](w *World, e Entity, pa Param[A], pb Param[B], fn func(Entity, *A, *B)) (bool, error) {
	w.beginDispatch()
	defer w.endDispatch()
	var pl plan
	ta := pa.bind(w, &pl)
	tb := pb.bind(w, &pl)
	rec, ok := w.record(e)
	if !ok {
		return false, entityNotFound(e)
	}
	a, ok := ta.get(w, rec)
	if !ok {
		return false, nil
	}
	b, ok := tb.get(w, rec)
	if !ok {
		return false, nil
	}
	fn(e, a, b)
	return true, nil
}

// System3 invokes fn once for every live entity matching the 3-position query.
// It returns the number of invocations.
// Despawns and component changes made by fn are applied after the pass.
func System3[A, B, C Component](w *World, pa Param[A], pb Param[B], pc Param[C], fn func(Entity, *A, *B, *C)) int {
	w.beginDispatch()
	defer w.endDispatch()
	var pl plan
	ta := pa.bind(w, &pl)
	tb := pb.bind(w, &pl)
	tc := pc.bind(w, &pl)
	n := 0
	for _, e := range w.snapshot(&pl) {
		rec, ok := w.candidate(e)
		if !ok {
			continue
		}
		a, ok := ta.get(w, rec)
		if !ok {
			continue
		}
		b, ok := tb.get(w, rec)
		if !ok {
			continue
		}
		c, ok := tc.get(w, rec)
		if !ok {
			continue
		}
		fn(e, a, b, c)
		n++
	}
	return n
}

// EntitySystem3 invokes fn for e alone. It reports whether fn ran; a
// missing required component is not an error.
// Despawns and component changes made by fn are applied after it returns.
func EntitySystem3[A, B, C Component](w *World, e Entity, pa Param[A], pb Param[B], pc Param[C], fn func(Entity, *A, *B, *C)) (bool, error) {
	w.beginDispatch()
	defer w.endDispatch()
	var pl plan
	ta := pa.bind(w, &pl)
	tb := pb.bind(w, &pl)
	tc := pc.bind(w, &pl)
	rec, ok := w.record(e)
	if !ok {
		return false, entityNotFound(e)
	}
	a, ok := ta.get(w, rec)
	if !ok {
		return false, nil
	}
	b, ok := tb.get(w, rec)
	if !ok {
		return false, nil
	}
	c, ok := tc.get(w, rec)
	if !ok {
		return false, nil
	}
	fn(e, a, b, c)
	return true, nil
}

// System4 invokes fn once for every live entity matching the 4-position query.
// It returns the number of invocations.
// Despawns and component changes made by fn are applied after the pass.
func System4[A, B, C, D Component](w *World, pa Param[A], pb Param[B], pc Param[C], pd Param[D], fn func(Entity, *A, *B, *C, *D)) int {
	w.beginDispatch()
	defer w.endDispatch()
	var pl plan
	ta := pa.bind(w, &pl)
	tb := pb.bind(w, &pl)
	tc := pc.bind(w, &pl)
	td := pd.bind(w, &pl)
	n := 0
	for _, e := range w.snapshot(&pl) {
		rec, ok := w.candidate(e)
		if !ok {
			continue
		}
		a, ok := ta.get(w, rec)
		if !ok {
			continue
		}
		b, ok := tb.get(w, rec)
		if !ok {
			continue
		}
		c, ok := tc.get(w, rec)
		if !ok {
			continue
		}
		d, ok := td.get(w, rec)
		if !ok {
			continue
		}
		fn(e, a, b, c, d)
		n++
	}
	return n
}

// EntitySystem4 invokes fn for e alone. It reports whether fn ran; a
// missing required component is not an error.
// Despawns and component changes made by fn are applied after it returns.
func EntitySystem4[A, B, C, D Component](w *World, e Entity, pa Param[A], pb Param[B], pc Param[C], pd Param[D], fn func(Entity, *A, *B, *C, *D)) (bool, error) {
	w.beginDispatch()
	defer w.endDispatch()
	var pl plan
	ta := pa.bind(w, &pl)
	tb := pb.bind(w, &pl)
	tc := pc.bind(w, &pl)
	td := pd.bind(w, &pl)
	rec, ok := w.record(e)
	if !ok {
		return false, entityNotFound(e)
	}
	a, ok := ta.get(w, rec)
	if !ok {
		return false, nil
	}
	b, ok := tb.get(w, rec)
	if !ok {
		return false, nil
	}
	c, ok := tc.get(w, rec)
	if !ok {
		return false, nil
	}
	d, ok := td.get(w, rec)
	if !ok {
		return false, nil
	}
	fn(e, a, b, c, d)
	return true, nil
}

// System5 invokes fn once for every live entity matching the 5-position query.
// It returns the number of invocations.
// Despawns and component changes made by fn are applied after the pass.
func System5[A, B, C, D, E Component](w *World, pa Param[A], pb Param[B], pc Param[C], pd Param[D], pe Param[E], fn func(Entity, *A, *B, *C, *D, *E)) int {
	w.beginDispatch()
	defer w.endDispatch()
	var pl plan
	ta := pa.bind(w, &pl)
	tb := pb.bind(w, &pl)
	tc := pc.bind(w, &pl)
	td := pd.bind(w, &pl)
	te := pe.bind(w, &pl)
	n := 0
	for _, e := range w.snapshot(&pl) {
		rec, ok := w.candidate(e)
		if !ok {
			continue
		}
		a, ok := ta.get(w, rec)
		if !ok {
			continue
		}
		b, ok := tb.get(w, rec)
		if !ok {
			continue
		}
		c, ok := tc.get(w, rec)
		if !ok {
			continue
		}
		d, ok := td.get(w, rec)
		if !ok {
			continue
		}
		ev, ok := te.get(w, rec)
		if !ok {
			continue
		}
		fn(e, a, b, c, d, ev)
		n++
	}
	return n
}

// EntitySystem5 invokes fn for e alone. It reports whether fn ran; a
// missing required component is not an error.
// Despawns and component changes made by fn are applied after it returns.
func EntitySystem5[A, B, C, D, E Component](w *World, e Entity, pa Param[A], pb Param[B], pc Param[C], pd Param[D], pe Param[E], fn func(Entity, *A, *B, *C, *D, *E)) (bool, error) {
	w.beginDispatch()
	defer w.endDispatch()
	var pl plan
	ta := pa.bind(w, &pl)
	tb := pb.bind(w, &pl)
	tc := pc.bind(w, &pl)
	td := pd.bind(w, &pl)
	te := pe.bind(w, &pl)
	rec, ok := w.record(e)
	if !ok {
		return false, entityNotFound(e)
	}
	a, ok := ta.get(w, rec)
	if !ok {
		return false, nil
	}
	b, ok := tb.get(w, rec)
	if !ok {
		return false, nil
	}
	c, ok := tc.get(w, rec)
	if !ok {
		return false, nil
	}
	d, ok := td.get(w, rec)
	if !ok {
		return false, nil
	}
	ev, ok := te.get(w, rec)
	if !ok {
		return false, nil
	}
	fn(e, a, b, c, d, ev)
	return true, nil
}
