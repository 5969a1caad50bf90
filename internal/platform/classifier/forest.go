package classifier

// node is a compiled tree node; left < 0 marks a leaf.
type node struct {
	feature   int
	threshold float64
	left      int
	right     int
	proba     float64
}

type tree []node

func (t tree) predict(x []float64) float64 {
	i := 0
	for t[i].left >= 0 {
		n := t[i]
		if x[n.feature] <= n.threshold {
			i = n.left
		} else {
			i = n.right
		}
	}
	return t[i].proba
}

// forest averages the per-tree class probabilities, as predict_proba does for
// a random forest.
type forest []tree

func (f forest) positiveProba(x []float64) float64 {
	var sum float64
	for _, t := range f {
		sum += t.predict(x)
	}
	return sum / float64(len(f))
}

func (f forest) size() int { return len(f) }

func compileForest(specs []TreeSpec, nFeatures, nClasses, positive int) (forest, error) {
	if len(specs) == 0 {
		return nil, unavailable("random forest has no trees")
	}
	out := make(forest, len(specs))
	for ti, spec := range specs {
		t, err := compileTree(ti, spec, nFeatures, nClasses, positive)
		if err != nil {
			return nil, err
		}
		out[ti] = t
	}
	return out, nil
}

// compileTree requires children to sit after their parent in the node array,
// which rules out cycles and guarantees traversal ends at a leaf.
func compileTree(ti int, spec TreeSpec, nFeatures, nClasses, positive int) (tree, error) {
	n := len(spec.Nodes)
	if n == 0 {
		return nil, unavailable("tree %d has no nodes", ti)
	}
	t := make(tree, n)
	for i, s := range spec.Nodes {
		if s.isLeaf() {
			if len(s.Value) != nClasses {
				return nil, unavailable("tree %d node %d: leaf has %d class weights, want %d", ti, i, len(s.Value), nClasses)
			}
			var total float64
			for _, w := range s.Value {
				if w < 0 {
					return nil, unavailable("tree %d node %d: negative class weight", ti, i)
				}
				total += w
			}
			if total <= 0 {
				return nil, unavailable("tree %d node %d: leaf weights sum to zero", ti, i)
			}
			t[i] = node{left: -1, right: -1, proba: s.Value[positive] / total}
			continue
		}

		if s.Left == nil || s.Right == nil || s.Feature == nil {
			return nil, unavailable("tree %d node %d: split needs feature, left and right", ti, i)
		}
		if *s.Feature < 0 || *s.Feature >= nFeatures {
			return nil, unavailable("tree %d node %d: feature index %d out of range", ti, i, *s.Feature)
		}
		for _, child := range []int{*s.Left, *s.Right} {
			if child <= i || child >= n {
				return nil, unavailable("tree %d node %d: child %d must follow its parent", ti, i, child)
			}
		}
		t[i] = node{feature: *s.Feature, threshold: s.Threshold, left: *s.Left, right: *s.Right}
	}
	return t, nil
}
