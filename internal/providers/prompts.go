package providers

import "fmt"

// scriptPrompt builds the narration prompt. The output must be clean spoken
// text only since it is fed directly to voice synthesis.
func scriptPrompt(topic string, durationMinutes, wordTarget int) string {
	return fmt.Sprintf(`Create a compelling, engaging YouTube video script about %q that will be exactly %d minutes long.

Requirements:
- Write approximately %d words (%d minutes of content)
- Include a strong hook in the first 15 seconds
- Use storytelling techniques to maintain engagement
- Write in a conversational, engaging tone for voiceover narration
- Include a call-to-action at the end

CRITICAL: Write ONLY the spoken narration text. Do NOT include stage directions,
technical instructions, editing notes, camera directions, or any text that is
not meant to be spoken aloud. Avoid brackets, parentheses, or special
formatting so the script sounds natural for AI voice generation.

Generate ONLY the spoken script content - nothing else.`, topic, durationMinutes, wordTarget, durationMinutes)
}

// metadataPrompt builds the metadata prompt. The response must be JSON
// matching metadataSchema.
func metadataPrompt(topic, scriptText string) string {
	preview := scriptText
	if len(preview) > 200 {
		preview = preview[:200] + "..."
	}
	return fmt.Sprintf(`Create optimized YouTube metadata for a video about %q.

Respond with a single JSON object, no surrounding prose, with this shape:
{
  "titles": [exactly 3 high-CTR title variations, 60 characters max each],
  "description": "a detailed description (200+ words) with an engaging opening, key points covered, relevant hashtags, and a call to action",
  "tags": [10 to 15 relevant tags for YouTube SEO]
}

Make it optimized for the YouTube algorithm and high engagement.
Script preview: %s`, topic, preview)
}

// thumbnailPrompt builds the image generation prompt.
func thumbnailPrompt(topic string) string {
	return fmt.Sprintf(`Create a highly engaging, professional YouTube thumbnail image for a video about %q.

CRITICAL REQUIREMENTS:
- NO TEXT OR WORDS in the image at all
- Focus on powerful visual imagery only
- Dramatic, cinematic composition
- High contrast and vibrant colors
- Professional photography style
- Should evoke strong emotion and curiosity
- Dark, mysterious atmosphere if the topic is serious; bright and energetic if upbeat

Style: Professional digital art, photorealistic, movie poster quality, no text overlay.`, topic)
}
