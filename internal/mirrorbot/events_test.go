package mirrorbot

import (
	"fmt"

	"github.com/google/go-github/v59/github"
	gitlab "github.com/xanzy/go-gitlab"
)

func strPtr(in string) *string {
	return &in
}

func int64Ptr(in int64) *int64 {
	return &in
}

func boolPtr(in bool) *bool {
	return &in
}

func newPullRequestEvent(action string, prNumber int, baseRef, headRef, headSHA string, labels ...string) *github.PullRequestEvent {
	pr := github.PullRequest{
		Number: &prNumber,
		Base: &github.PullRequestBranch{
			Ref: strPtr(baseRef),
			Repo: &github.Repository{
				CloneURL: strPtr(fmt.Sprintf("https://example.com/%s/%s.git", repoOwner, repo)),
			},
		},
		Head: &github.PullRequestBranch{
			Ref: strPtr(headRef),
			SHA: strPtr(headSHA),
			Repo: &github.Repository{
				CloneURL: strPtr("https://example.com/fork/" + repo + ".git"),
			},
		},
	}

	for i := range labels {
		pr.Labels = append(pr.Labels, &github.Label{Name: &labels[i]})
	}

	return &github.PullRequestEvent{
		Action:      strPtr(action),
		Number:      &prNumber,
		PullRequest: &pr,
		Repo: &github.Repository{
			Name: strPtr(repo),
			Owner: &github.User{
				Login: strPtr(repoOwner),
			},
		},
	}
}

func newPullRequestClosedEvent(prNumber int, merged bool) *github.PullRequestEvent {
	ev := newPullRequestEvent("closed", prNumber, "master", "pr_branch", "aaaa")
	ev.PullRequest.Merged = boolPtr(merged)

	return ev
}

func newPushEvent(branch string, commitMessages ...string) *github.PushEvent {
	ev := github.PushEvent{
		Ref: strPtr("refs/heads/" + branch),
		Repo: &github.PushEventRepository{
			Name: strPtr(repo),
			Owner: &github.User{
				Login: strPtr(repoOwner),
			},
		},
	}

	for i := range commitMessages {
		ev.Commits = append(ev.Commits, &github.HeadCommit{
			Message: &commitMessages[i],
		})
	}

	return &ev
}

func newProjectCardEvent(action string, cardID, columnID int64, contentURL string) *github.ProjectCardEvent {
	return &github.ProjectCardEvent{
		Action: strPtr(action),
		ProjectCard: &github.ProjectCard{
			ID:         int64Ptr(cardID),
			ColumnID:   int64Ptr(columnID),
			ContentURL: strPtr(contentURL),
		},
		Repo: &github.Repository{
			Name: strPtr(repo),
			Owner: &github.User{
				Login: strPtr(repoOwner),
			},
		},
	}
}

func newJobEvent(projectID, jobID int, buildName, status, failureReason string, allowFailure bool) *gitlab.JobEvent {
	ev := gitlab.JobEvent{
		BuildID:            jobID,
		BuildName:          buildName,
		BuildStatus:        status,
		BuildFailureReason: failureReason,
		BuildAllowFailure:  allowFailure,
		ProjectID:          projectID,
		SHA:                "deadbeef",
	}

	ev.Repository = &gitlab.Repository{
		Homepage: "https://gitlab.example.com/ci/mirror",
	}

	return &ev
}
