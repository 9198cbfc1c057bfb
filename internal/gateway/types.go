package gateway

// Profile is the subset of a GitHub user the app displays.
type Profile struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	AvatarURL   string `json:"avatar_url"`
	HTMLURL     string `json:"html_url"`
	Bio         string `json:"bio"`
	Location    string `json:"location"`
	Followers   int    `json:"followers"`
	PublicRepos int    `json:"public_repos"`
}

// DisplayName falls back to the login when the user has no name set.
func (p *Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Login
}

// Repository is one repository summary on a page.
type Repository struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	HTMLURL         string `json:"html_url"`
	Description     string `json:"description"`
	Language        string `json:"language"`
	StargazersCount int    `json:"stargazers_count"`
	ForksCount      int    `json:"forks_count"`
}
