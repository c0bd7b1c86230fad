package media

// ImageSet holds the public URLs of the three derivatives of one upload.
type ImageSet struct {
	Full     string `json:"full"`
	Standard string `json:"standard"`
	Thumb    string `json:"thumb"`
}

func (s ImageSet) Empty() bool {
	return s.Full == "" && s.Standard == "" && s.Thumb == ""
}

// External uses a single remote URL for every variant.
func External(url string) ImageSet {
	return ImageSet{Full: url, Standard: url, Thumb: url}
}
