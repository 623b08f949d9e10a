package bundlegraph

import (
	"fmt"
	"strings"
)

// MembershipError lists assets that were not placed in any bundle.
type MembershipError struct {
	AssetIDs []string
}

func (e *MembershipError) Error() string {
	return fmt.Sprintf("%d asset(s) were not placed in any bundle: %s", len(e.AssetIDs), strings.Join(e.AssetIDs, ", "))
}

// MissingAssets returns the assets of the dominator tree, cycle members
// included, that no bundle of bg claimed.
func MissingAssets(tree *DominatorTree, bg *BundleGraph) []AssetRef {
	var missing []AssetRef
	for _, idx := range tree.Graph.NodeIndices() {
		for _, ref := range tree.Graph.Node(idx).Assets() {
			if _, ok := bg.BundleForAsset(ref.Asset.ID); !ok {
				missing = append(missing, ref)
			}
		}
	}
	return missing
}

// CheckMembership returns a *MembershipError naming every asset of tree that
// bg left out, or nil when every asset has a bundle.
func CheckMembership(tree *DominatorTree, bg *BundleGraph) error {
	missing := MissingAssets(tree, bg)
	if len(missing) == 0 {
		return nil
	}
	ids := make([]string, 0, len(missing))
	for _, ref := range missing {
		ids = append(ids, ref.Asset.ID)
	}
	return &MembershipError{AssetIDs: ids}
}
