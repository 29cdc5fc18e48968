package sqlinline

// Per-item dedupe: a retried attempt re-derives the same
// (author, media type, media id) key and the conflict clause keeps the
// earlier write, so no row comes back and the caller knows it was a repeat.
const QInsertPost = `--sql c292b488-0a84-4f61-bb44-86496bced399
insert into blog_posts (id, author_id, title, slug, content, excerpt, tags, media_type, media_id, media_title, poster_path, reading_time, published)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
on conflict (author_id, media_type, media_id) do nothing
returning id;
`

const QSlugExists = `--sql 24a3b42f-3be5-4635-a214-d7e6e898c1c9
select exists (select 1 from blog_posts where slug = $1);
`
