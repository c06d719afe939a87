package items

import "strings"

// GitHubPullRequests classifies GitHub PR records: merged when merged_at is
// set, otherwise open/closed by state.
func GitHubPullRequests() Classifier {
	merged := func(it Item) bool { return it.Str("merged_at") != "" }
	return Classifier{
		State:    func(it Item) string { return it.Str("state") },
		IsMerged: merged,
		IsOpen:   func(it Item) bool { return it.Str("state") == "open" },
		IsClosed: func(it Item) bool { return it.Str("state") == "closed" && !merged(it) },
		GroupKey: func(it Item) string { return it.Str("base.repo.name") },
	}
}

// GitLabMergeRequests classifies GitLab MR records, which carry a dedicated
// "merged" state instead of a merge timestamp capability.
func GitLabMergeRequests() Classifier {
	return Classifier{
		State:    func(it Item) string { return it.Str("state") },
		IsMerged: func(it Item) bool { return it.Str("state") == "merged" },
		IsOpen:   func(it Item) bool { return it.Str("state") == "opened" },
		IsClosed: func(it Item) bool { return it.Str("state") == "closed" },
		GroupKey: func(it Item) string { return strings.SplitN(it.Str("references.full"), "!", 2)[0] },
	}
}

// JiraIssues classifies Jira issue records by status category: "done" is
// both merged and closed in PR terms, everything else counts as open.
func JiraIssues() Classifier {
	done := func(it Item) bool {
		return strings.EqualFold(it.Str("fields.status.statusCategory.key"), "done")
	}
	return Classifier{
		State:    func(it Item) string { return it.Str("fields.status.name") },
		IsMerged: done,
		IsOpen:   func(it Item) bool { return !done(it) },
		IsClosed: done,
		GroupKey: func(it Item) string { return it.Str("fields.project.key") },
	}
}
