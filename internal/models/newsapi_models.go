package models

type NewsAPIEverythingResponse struct {
	Status       string           `json:"status"`
	TotalResults int              `json:"totalResults"`
	Articles     []NewsAPIArticle `json:"articles"`
	Code         string           `json:"code,omitempty"`
	Message      string           `json:"message,omitempty"`
}

type NewsAPIArticleSource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type NewsAPIArticle struct {
	Source      NewsAPIArticleSource `json:"source"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	URL         string               `json:"url"`
	PublishedAt string               `json:"publishedAt"`
	Content     string               `json:"content"`
}
