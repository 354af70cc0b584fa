package app

import (
	"context"

	"xcsign/internal/core"
)

func (s Service) Tree(ctx context.Context, req TreeRequest) (TreeResult, error) {
	resolved, err := s.resolve(ctx, req.ShellScript, req.SDK, req.WorkDir)
	if err != nil {
		return TreeResult{}, err
	}
	return TreeResult{
		Entry: resolved.summary(),
		Root:  treeNode(resolved.tree),
	}, nil
}

// treeNode repeats a shared dependency under every parent that names it.
func treeNode(tree *core.DependencyTree) TreeNode {
	settings := tree.Settings
	node := TreeNode{
		Target: tree.TargetName,
		Style:  settings.CodeSignStyle(),
	}
	node.BundleID, _ = settings.BundleIdentifier()
	node.ProfileSpecifier, _ = settings.ProvisioningProfileSpecifier()
	node.Team, _ = settings.DevelopmentTeam()
	node.Identity, _ = settings.CodeSignIdentity()
	for _, child := range tree.Children {
		node.Children = append(node.Children, treeNode(child))
	}
	return node
}
