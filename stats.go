package bloglist

// AuthorBlogs is the author with the most blogs
type AuthorBlogs struct {
	Author string `json:"author"`
	Blogs  int    `json:"blogs"`
}

// AuthorLikes is the author whose blogs collected the most likes
type AuthorLikes struct {
	Author string `json:"author"`
	Likes  int    `json:"likes"`
}

// BlogStats summarizes the blog collection
type BlogStats struct {
	TotalLikes int         `json:"total_likes"`
	Favorite   *Blog       `json:"favorite"`
	MostBlogs  AuthorBlogs `json:"most_blogs"`
	MostLikes  AuthorLikes `json:"most_likes"`
}

// NewBlogStats computes every statistic over blogs
func NewBlogStats(blogs []*Blog) BlogStats {
	return BlogStats{
		TotalLikes: TotalLikes(blogs),
		Favorite:   FavoriteBlog(blogs),
		MostBlogs:  MostBlogs(blogs),
		MostLikes:  MostLikes(blogs),
	}
}

// TotalLikes sums the likes of all blogs
func TotalLikes(blogs []*Blog) int {
	total := 0
	for _, b := range blogs {
		total += b.Likes
	}
	return total
}

// FavoriteBlog returns the blog with the most likes, nil for an empty list.
// On ties the later blog wins.
func FavoriteBlog(blogs []*Blog) *Blog {
	var fav *Blog
	for _, b := range blogs {
		if fav == nil || b.Likes >= fav.Likes {
			fav = b
		}
	}
	return fav
}

// MostBlogs returns the author with the most blogs. Authors are ranked in
// order of first appearance and ties go to the later author.
func MostBlogs(blogs []*Blog) AuthorBlogs {
	authors, counts := tally(blogs, func(*Blog) int { return 1 })

	out := AuthorBlogs{}
	for _, a := range authors {
		if counts[a] >= out.Blogs {
			out = AuthorBlogs{Author: a, Blogs: counts[a]}
		}
	}
	return out
}

// MostLikes returns the author whose blogs have the most likes in total.
func MostLikes(blogs []*Blog) AuthorLikes {
	authors, likes := tally(blogs, func(b *Blog) int { return b.Likes })

	out := AuthorLikes{}
	for _, a := range authors {
		if likes[a] >= out.Likes {
			out = AuthorLikes{Author: a, Likes: likes[a]}
		}
	}
	return out
}

func tally(blogs []*Blog, weight func(*Blog) int) ([]string, map[string]int) {
	order := make([]string, 0)
	sums := make(map[string]int)
	for _, b := range blogs {
		if _, ok := sums[b.Author]; !ok {
			order = append(order, b.Author)
		}
		sums[b.Author] += weight(b)
	}
	return order, sums
}
