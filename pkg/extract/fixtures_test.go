package extract

const metaPage = `<!DOCTYPE html>
<html><head>
<meta property="og:title" content="Jane Doe (@janedoe)">
<meta property="og:description" content="1.2M Followers, 500 Following, 1,234 Posts - See Instagram photos and videos from Jane Doe (@janedoe)">
<meta property="og:image" content="https://cdn.example.test/jane.jpg">
</head><body></body></html>`

const sharedDataPage = `<!DOCTYPE html>
<html><head>
<meta property="og:title" content="Jane Doe (@janedoe)">
<script src="https://static.example.test/app.js"></script>
<script type="text/javascript">window._sharedData = {"entry_data":{"ProfilePage":[{"graphql":{"user":{"id":"123","username":"janedoe","full_name":"Jane Doe","biography":"hello","edge_followed_by":{"count":1200345},"edge_follow":{"count":500},"edge_owner_to_timeline_media":{"count":1234},"profile_pic_url_hd":"https://cdn.example.test/jane_hd.jpg","is_verified":true}}}]}};</script>
</head><body></body></html>`

const endpointBody = `{"graphql":{"user":{"id":"123","username":"janedoe","full_name":"Jane Doe","edge_followed_by":{"count":1200345},"edge_follow":{"count":500},"edge_owner_to_timeline_media":{"count":1234},"is_verified":true}}}`

const blankPage = `<!DOCTYPE html><html><head><title>Login</title></head><body></body></html>`

func sharedDataScript(literal string) string {
	return `<html><head><script>window._sharedData = ` + literal + `;</script></head></html>`
}
