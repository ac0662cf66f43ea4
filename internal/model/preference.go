package model

// PreferenceSet is the liked/disliked tokens accumulated in a session
type PreferenceSet struct {
	Likes    []string `json:"likes"`
	Dislikes []string `json:"dislikes"`
}

// Extraction is what the preference extractor pulled out of one utterance
type Extraction struct {
	Likes    []string `json:"likes"`
	Dislikes []string `json:"dislikes"`
}
